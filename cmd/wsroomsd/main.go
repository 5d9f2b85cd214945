package main

import "wsrooms/server"

func main() {
	server.Main()
}

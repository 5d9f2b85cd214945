package server

import (
	"context"
	"time"

	"wsrooms/pkg/pool"

	"github.com/gorilla/websocket"
)

// runSession drives one room connection: a keepalive ping loop plus the
// pool receive loop that relays each inbound message to the other room
// members. It returns when the connection leaves the pool.
func (s *Server) runSession(p *pool.Pool, id string, conn *wsConn) {
	entry, ok := p.Get(id)
	if !ok {
		// Entry already removed between Add and here; do not leak the
		// socket.
		conn.Close(websocket.CloseNormalClosure, "session ended")
		return
	}

	go s.pingLoop(conn, entry.Done())

	// Close the socket once the entry completes, whatever the path:
	// explicit removal, room disposal or eviction. This also unblocks a
	// receive loop stuck in a read.
	go func() {
		<-entry.Done()
		conn.Close(websocket.CloseNormalClosure, "session ended")
	}()

	ctx := context.Background()
	result := p.Receive(ctx, id, func(kind int, payload []byte) {
		s.fanOut(ctx, p, id, kind, payload)
	})

	s.log.Info("session ended", "room", p.Name(), "conn_id", id, "result", result.String())
}

// fanOut relays a message to every room member except the sender.
func (s *Server) fanOut(ctx context.Context, p *pool.Pool, sender string, kind int, payload []byte) {
	for _, id := range p.IDs() {
		if id == sender {
			continue
		}
		p.Send(ctx, id, kind, payload)
	}
}

// pingLoop sends periodic pings so the peer's pong resets our read
// deadline. It stops when the entry completes or a ping fails.
func (s *Server) pingLoop(conn *wsConn, done <-chan struct{}) {
	period := s.cfg.Pool.PongTimeout() * 9 / 10
	if period <= 0 {
		period = 54 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

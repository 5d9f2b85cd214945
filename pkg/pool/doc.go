// Package pool provides named, concurrency-safe registries of live WebSocket
// connections ("rooms") with broadcast, single-target send, per-connection
// receive loops, and background eviction of dead connections.
//
// The package is organized around three types:
//
// Pool is the registry for one room. Entries are keyed by a caller-supplied
// unique identifier. Add and Remove are atomic with respect to concurrent
// calls on the same identifier, so exactly one of several racing Add calls
// for an id can succeed. Send and Broadcast treat a write failure as proof
// the connection is dead and evict the target as a side effect. A background
// goroutine owned by the pool sweeps out entries whose connection is no
// longer open; Dispose stops the sweep and removes every remaining entry.
//
// Entry pairs an identifier with its connection and a completion signal: a
// single-assignment, multi-waiter future resolved exactly once with the
// Result describing why the entry left the pool. Any number of goroutines
// may block in Wait and all observe the same Result.
//
// Registry is a memoizing name-to-Pool map that creates pools lazily on
// first use.
//
// The pool consumes connections through the Conn interface and never touches
// the transport directly, so any full-duplex, message-oriented handle can be
// pooled. Transport errors are never returned to callers; they are converted
// into Result codes plus the eviction side effect.
package pool

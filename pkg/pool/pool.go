package pool

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultEvictInterval is the default sweep period for the background
// eviction goroutine. It matches the usual WebSocket ping cadence (90% of
// a 60s read deadline), so a silently dead connection is reclaimed within
// roughly one keep-alive round trip.
const DefaultEvictInterval = 54 * time.Second

// Hooks are optional observer callbacks a pool invokes after a successful
// Add and after every removal. They run on the goroutine that performed
// the mutation, outside the registry lock, so they may call back into the
// pool. Removal hooks receive the reason the entry left.
type Hooks struct {
	OnAdd    func(*Pool, *Entry)
	OnRemove func(*Pool, *Entry, Result)
}

// Pool is a concurrency-safe registry of live connections for one named
// room. The zero value is not usable; create pools with NewPool.
type Pool struct {
	name  string
	hooks Hooks

	mu       sync.RWMutex
	entries  map[string]*Entry
	disposed bool

	stop        chan struct{}
	disposeOnce sync.Once
	wg          sync.WaitGroup
}

// NewPool creates a pool and starts its background eviction goroutine.
// evictInterval <= 0 selects DefaultEvictInterval. The eviction goroutine
// runs until Dispose is called.
func NewPool(name string, evictInterval time.Duration, hooks Hooks) *Pool {
	if evictInterval <= 0 {
		evictInterval = DefaultEvictInterval
	}
	p := &Pool{
		name:    name,
		hooks:   hooks,
		entries: make(map[string]*Entry),
		stop:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.evictLoop(evictInterval)
	return p
}

// Name returns the pool's room name.
func (p *Pool) Name() string {
	return p.name
}

// Add registers a connection under id and returns its new entry. It fails
// with ErrDuplicateID if the id is already registered and ErrPoolDisposed
// if the pool has been disposed. Exactly one of several Add calls racing
// on the same id succeeds.
func (p *Pool) Add(id string, conn Conn) (*Entry, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return nil, ErrPoolDisposed
	}
	if _, exists := p.entries[id]; exists {
		p.mu.Unlock()
		return nil, ErrDuplicateID
	}
	e := newEntry(id, conn)
	p.entries[id] = e
	p.mu.Unlock()

	if p.hooks.OnAdd != nil {
		p.hooks.OnAdd(p, e)
	}
	return e, nil
}

// Remove deletes id from the pool and resolves the removed entry's
// completion signal with reason, unblocking every waiter exactly once.
// It reports false if the id is not registered, so a second Remove for
// the same id always fails cleanly.
func (p *Pool) Remove(id string, reason Result) (*Entry, bool) {
	p.mu.Lock()
	e, ok := p.entries[id]
	if ok {
		delete(p.entries, id)
	}
	p.mu.Unlock()

	if !ok {
		return nil, false
	}
	e.complete(reason)
	if p.hooks.OnRemove != nil {
		p.hooks.OnRemove(p, e, reason)
	}
	return e, true
}

// removeEntry removes e only if it is still the entry registered under its
// id. Send, Receive and the eviction sweep go through here so a failure
// observed on a stale entry can never evict a successor registered under
// the same id.
func (p *Pool) removeEntry(e *Entry, reason Result) bool {
	p.mu.Lock()
	cur, ok := p.entries[e.id]
	if ok && cur == e {
		delete(p.entries, e.id)
	} else {
		ok = false
	}
	p.mu.Unlock()

	if !ok {
		return false
	}
	e.complete(reason)
	if p.hooks.OnRemove != nil {
		p.hooks.OnRemove(p, e, reason)
	}
	return true
}

// Get returns the entry registered under id. Reads are permitted during
// and after disposal so callers can drain state.
func (p *Pool) Get(id string) (*Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[id]
	return e, ok
}

// Len returns the number of registered entries.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Snapshot returns the current entries. The slice is a point-in-time copy,
// not a live view; entries may leave the pool while the caller holds it.
func (p *Pool) Snapshot() []*Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries := make([]*Entry, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, e)
	}
	return entries
}

// IDs returns a snapshot of the registered identifiers.
func (p *Pool) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	return ids
}

// Disposed reports whether Dispose has been called.
func (p *Pool) Disposed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.disposed
}

// Send writes one message to the connection registered under id.
//
// It returns ResultNone if the id is not registered. A target that is
// found disconnected, or whose write fails, is evicted from the pool with
// ResultAborted as a side effect and ResultAborted is returned; a failed
// send doubles as the cleanup trigger for that connection. On success it
// returns ResultNormal.
func (p *Pool) Send(ctx context.Context, id string, kind int, payload []byte) Result {
	e, ok := p.Get(id)
	if !ok {
		return ResultNone
	}
	if !e.IsConnected() {
		p.removeEntry(e, ResultAborted)
		return ResultAborted
	}
	if err := e.conn.Write(ctx, kind, payload); err != nil {
		p.removeEntry(e, ResultAborted)
		return ResultAborted
	}
	return ResultNormal
}

// Broadcast sends payload to every currently-registered id concurrently
// and waits for all sends to finish. Failed targets are silently evicted
// by Send; there is no per-target error report beyond that side effect.
func (p *Pool) Broadcast(ctx context.Context, kind int, payload []byte) {
	var wg sync.WaitGroup
	for _, id := range p.IDs() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			p.Send(ctx, id, kind, payload)
		}(id)
	}
	wg.Wait()
}

// Receive runs the blocking receive loop for the connection registered
// under id. Every received message is handed to onMessage on its own
// goroutine with its own copy of the payload; the loop never waits for a
// handler before issuing the next read.
//
// It returns ResultNone if the id is not registered. A peer-initiated
// close evicts the entry with ResultClosedByPeer; any other read error,
// including ctx cancellation, evicts it with ResultAborted, as does an
// entry whose connection is found closed on the loop check. If the entry
// already left the pool through another path, the outcome that path
// recorded is returned instead. The return value is otherwise the last
// known outcome, ResultAborted by default once the loop has started.
func (p *Pool) Receive(ctx context.Context, id string, onMessage func(kind int, payload []byte)) Result {
	e, ok := p.Get(id)
	if !ok {
		return ResultNone
	}

	outcome := ResultAborted
	for {
		if !e.IsConnected() {
			// Found dead without a read error: evict now, same rule
			// as Send, rather than leaving it for the sweep.
			if !p.removeEntry(e, ResultAborted) {
				outcome = e.Outcome()
			}
			break
		}
		kind, payload, err := e.conn.Read(ctx)
		if err != nil {
			if errors.Is(err, ErrPeerClosed) {
				if p.removeEntry(e, ResultClosedByPeer) {
					outcome = ResultClosedByPeer
				} else {
					// Entry already left through another path;
					// report the outcome that path recorded.
					outcome = e.Outcome()
				}
			} else if !p.removeEntry(e, ResultAborted) {
				outcome = e.Outcome()
			}
			break
		}
		if onMessage != nil {
			msg := make([]byte, len(payload))
			copy(msg, payload)
			go onMessage(kind, msg)
		}
	}
	return outcome
}

// Dispose shuts the pool down: no further Add succeeds, the eviction
// goroutine stops, and every remaining entry is removed with
// ResultRemoved. Safe to call more than once; only the first call does
// anything.
func (p *Pool) Dispose() {
	p.disposeOnce.Do(func() {
		p.mu.Lock()
		p.disposed = true
		removed := make([]*Entry, 0, len(p.entries))
		for _, e := range p.entries {
			removed = append(removed, e)
		}
		p.entries = make(map[string]*Entry)
		p.mu.Unlock()

		close(p.stop)
		p.wg.Wait()

		for _, e := range removed {
			e.complete(ResultRemoved)
			if p.hooks.OnRemove != nil {
				p.hooks.OnRemove(p, e, ResultRemoved)
			}
		}
	})
}

// evictLoop removes entries whose connection is no longer open. This is
// the only path that reclaims connections that die without ever touching
// Send or Receive, such as half-open TCP connections with no traffic.
func (p *Pool) evictLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, e := range p.Snapshot() {
				if !e.IsConnected() {
					p.removeEntry(e, ResultAborted)
				}
			}
		case <-p.stop:
			return
		}
	}
}

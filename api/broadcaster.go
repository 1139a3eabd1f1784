// Package api exposes a read-only HTTP/WebSocket view of a running VM: a
// single JSON snapshot over GET /state, and a push stream of the same
// snapshot, one per executed instruction, over GET /ws. It never mutates VM
// state — the driver loop stepping the VM is the only writer.
package api

import "sync"

// StateSnapshot is the JSON shape served by both /state and /ws: the
// program counter, all 32 general registers, and the full contents of
// memory at the moment it was taken.
type StateSnapshot struct {
	PC        uint32    `json:"pc"`
	Registers [32]uint32 `json:"registers"`
	Memory    []byte    `json:"memory"`
	Done      bool      `json:"done"`
}

// Broadcaster fans a stream of StateSnapshots out to any number of
// WebSocket clients, dropping snapshots for clients that fall behind rather
// than blocking the driver loop that produces them.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[chan StateSnapshot]bool
	done    chan struct{}
	closeOnce sync.Once
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan StateSnapshot]bool),
		done:    make(chan struct{}),
	}
}

// Subscribe registers a new client channel and returns it.
func (b *Broadcaster) Subscribe() chan StateSnapshot {
	ch := make(chan StateSnapshot, 8)
	b.mu.Lock()
	b.clients[ch] = true
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a client channel.
func (b *Broadcaster) Unsubscribe(ch chan StateSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clients[ch] {
		delete(b.clients, ch)
		close(ch)
	}
}

// Broadcast sends snapshot to every subscribed client, skipping any client
// whose buffer is full instead of blocking.
func (b *Broadcaster) Broadcast(snapshot StateSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Close shuts down the broadcaster, closing every subscribed client channel.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for ch := range b.clients {
			close(ch)
		}
		b.clients = make(map[chan StateSnapshot]bool)
		close(b.done)
	})
}

// Package events supports fanning ledger event messages out to any number
// of subscribers, each holding a buffered channel for the life of one
// websocket connection.
package events

import (
	"fmt"
	"sync"
)

// Events maintains the set of subscriber channels, keyed by the trace id
// of the request that acquired them.
type Events struct {
	subscribers map[string]chan string
	mu          sync.RWMutex
	closed      bool
}

// New constructs an Events for fanning out event messages.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Shutdown closes and removes every subscriber channel. A channel acquired
// after shutdown comes back closed so its reader ends immediately.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subscribers {
		delete(evt.subscribers, id)
		close(ch)
	}

	evt.closed = true
}

// Acquire returns the channel registered under the specified id, creating
// it when needed.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if evt.closed {
		ch := make(chan string)
		close(ch)
		return ch
	}

	ch, exists := evt.subscribers[id]
	if exists {
		return ch
	}

	// A message is dropped when the subscriber is not ready to receive, so
	// this buffer gives a slow websocket room to absorb the burst of mining
	// progress events without losing them.
	const messageBuffer = 100

	ch = make(chan string, messageBuffer)
	evt.subscribers[id] = ch

	return ch
}

// Release closes and removes the channel registered under the specified id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subscribers[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subscribers, id)
	close(ch)

	return nil
}

// Send delivers the message to every subscriber with buffer room, never
// blocking on a slow one.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

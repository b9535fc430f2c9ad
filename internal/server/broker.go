package server

import (
	"encoding/json"
	"sync"
)

// LeaderboardEvent is the payload published when the ranking changes.
type LeaderboardEvent struct {
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Score int    `json:"score,omitempty"`
	Rank  int    `json:"rank,omitempty"`
}

// Broker is an in-process pub/sub for leaderboard updates. All subscribers
// share one topic; slow subscribers are dropped rather than blocking a
// publish.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the subscriber set.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to all current subscribers.
func (b *Broker) Publish(event LeaderboardEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

package api

import (
	"sync"
	"time"

	"trafficchain_go/blockchain"
)

// Event is one ledger occurrence relayed to clients: an accepted
// transaction or a newly mined block.
type Event struct {
	Type        string                  `json:"type"` // "transaction" or "block"
	ObservedAt  string                  `json:"observedAt"`
	Transaction *blockchain.Transaction `json:"transaction,omitempty"`
	Block       *blockchain.Block       `json:"block,omitempty"`
}

// EventFeed retains the most recent ledger events for clients to poll. It
// implements blockchain.Notifier; older events are dropped once the limit
// is reached.
type EventFeed struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewEventFeed creates a feed retaining up to limit events.
func NewEventFeed(limit int) *EventFeed {
	if limit < 1 {
		limit = 1
	}
	return &EventFeed{limit: limit}
}

// TransactionAccepted records an accepted submission.
func (f *EventFeed) TransactionAccepted(tx *blockchain.Transaction) {
	f.append(Event{
		Type:        "transaction",
		ObservedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		Transaction: tx,
	})
}

// BlockMined records a newly mined block.
func (f *EventFeed) BlockMined(block *blockchain.Block) {
	f.append(Event{
		Type:       "block",
		ObservedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Block:      block,
	})
}

func (f *EventFeed) append(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
	if len(f.events) > f.limit {
		f.events = f.events[len(f.events)-f.limit:]
	}
}

// Recent returns the retained events, oldest first.
func (f *EventFeed) Recent() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

// Package bus is the synchronous change-notification fan-out. Mutating
// services publish a topic after their writes complete; reactive consumers
// re-query the collection the topic names. There is no payload and no
// delivery guarantee beyond one in-process call per publish.
package bus

import "sync"

// Topic names one changed collection.
type Topic string

const (
	TopicTransactions Topic = "transactions-changed"
	TopicAccounts     Topic = "accounts-changed"
	TopicCategories   Topic = "categories-changed"
	TopicCreditCards  Topic = "credit-cards-changed"
	TopicLoans        Topic = "loans-changed"
	TopicBudgets      Topic = "budgets-changed"
	TopicRecurring    Topic = "recurring-changed"
)

// Handler receives the topic that changed.
type Handler func(Topic)

// Bus dispatches synchronously and in-process.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic]map[int]Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe func.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish calls every handler subscribed to each topic, in the caller's
// goroutine, after the mutation that triggered it has completed.
func (b *Bus) Publish(topics ...Topic) {
	b.mu.RLock()
	var handlers []func()
	for _, topic := range topics {
		for _, h := range b.subs[topic] {
			h := h
			t := topic
			handlers = append(handlers, func() { h(t) })
		}
	}
	b.mu.RUnlock()

	for _, call := range handlers {
		call()
	}
}

package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()

	var got []Topic
	b.Subscribe(TopicAccounts, func(topic Topic) {
		got = append(got, topic)
	})

	b.Publish(TopicAccounts)
	b.Publish(TopicTransactions) // not subscribed
	b.Publish(TopicAccounts, TopicCreditCards)

	assert.Equal(t, []Topic{TopicAccounts, TopicAccounts}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	calls := 0
	unsub := b.Subscribe(TopicLoans, func(Topic) { calls++ })

	b.Publish(TopicLoans)
	unsub()
	b.Publish(TopicLoans)

	assert.Equal(t, 1, calls)
}

func TestMultipleSubscribers(t *testing.T) {
	b := New()

	a, c := 0, 0
	b.Subscribe(TopicBudgets, func(Topic) { a++ })
	b.Subscribe(TopicBudgets, func(Topic) { c++ })

	b.Publish(TopicBudgets)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, c)
}

func TestPublishWithNoSubscribersIsFine(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() { b.Publish(TopicRecurring, TopicCategories) })
}

// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package eventstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsStream(t *testing.T) {
	t.Run("With subscription", func(t *testing.T) {
		broker := New()
		t.Cleanup(broker.Close)

		sub := broker.AddSubscriber()
		require.NotNil(t, sub)
		broker.Subscribe(sub, "entities.activated")
		broker.Subscribe(sub, "entities.deactivated")

		require.EqualValues(t, 1, broker.SubscribersCount("entities.activated"))
		require.EqualValues(t, 1, broker.SubscribersCount("entities.deactivated"))

		broker.RemoveSubscriber(sub)
		assert.Zero(t, broker.SubscribersCount("entities.activated"))
		assert.Zero(t, broker.SubscribersCount("entities.deactivated"))

		// a removed subscriber cannot re-subscribe
		broker.Subscribe(sub, "entities.suspended")
		assert.Zero(t, broker.SubscribersCount("entities.suspended"))
	})
	t.Run("With unsubscription", func(t *testing.T) {
		broker := New()
		t.Cleanup(broker.Close)

		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "entities.activated")
		broker.Subscribe(sub, "entities.deactivated")

		broker.Unsubscribe(sub, "entities.activated")
		assert.Zero(t, broker.SubscribersCount("entities.activated"))
		require.EqualValues(t, 1, broker.SubscribersCount("entities.deactivated"))
		assert.Len(t, sub.Topics(), 1)
	})
	t.Run("With publication", func(t *testing.T) {
		broker := New()
		t.Cleanup(broker.Close)

		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "entities.activated")
		broker.Subscribe(sub, "entities.deactivated")

		broker.Publish("entities.activated", "product/p-1")
		broker.Publish("entities.deactivated", "cart/user-1")
		// a topic with no subscribers drops the message
		broker.Publish("entities.suspended", "ignored")

		var messages []*Message
		for message := range sub.Iterator() {
			messages = append(messages, message)
		}
		require.Len(t, messages, 2)
		assert.Equal(t, "entities.activated", messages[0].Topic())
		assert.Equal(t, "product/p-1", messages[0].Payload())
	})
	t.Run("With broadcast", func(t *testing.T) {
		broker := New()
		t.Cleanup(broker.Close)

		first := broker.AddSubscriber()
		second := broker.AddSubscriber()
		broker.Subscribe(first, "entities.activated")
		broker.Subscribe(second, "entities.deactivated")

		broker.Broadcast("everyone", []string{"entities.activated", "entities.deactivated"})

		firstMessages := collect(first)
		secondMessages := collect(second)
		require.Len(t, firstMessages, 1)
		require.Len(t, secondMessages, 1)
		assert.Equal(t, "everyone", firstMessages[0].Payload())
	})
	t.Run("With shutdown subscriber ignoring messages", func(t *testing.T) {
		broker := New()
		t.Cleanup(broker.Close)

		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "entities.activated")
		sub.Shutdown()

		broker.Publish("entities.activated", "dropped")
		assert.Empty(t, collect(sub))
		assert.False(t, sub.Active())
	})
	t.Run("With close clearing all subscribers", func(t *testing.T) {
		broker := New()
		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "entities.activated")

		broker.Close()
		assert.Zero(t, broker.SubscribersCount("entities.activated"))
		assert.False(t, sub.Active())
	})
}

func collect(sub Subscriber) []*Message {
	var messages []*Message
	for message := range sub.Iterator() {
		messages = append(messages, message)
	}
	return messages
}

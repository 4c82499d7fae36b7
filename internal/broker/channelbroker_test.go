package broker_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsech3/GameIQ/internal/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBroker(t *testing.T) {
	type testCase struct {
		name     string
		testFunc func(t *testing.T, b *broker.ChannelBroker[string, string])
	}
	tests := []testCase{
		{
			name: "subscriber receives progress",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				id := "trend"
				channel := make(chan string)
				require.True(t, b.TryPublish(id, channel))
				go func() {
					channel <- "requesting"
					close(channel)
					b.Unpublish(id)
				}()
				subscriptionChan := <-b.Subscribe(id)
				require.Equal(t, "requesting", <-subscriptionChan, "subscriber did not receive progress")
				msg, ok := <-subscriptionChan
				require.Empty(t, msg, "subscriber received progress after producer closed")
				require.False(t, ok, "channel not closed")
			},
		},
		{
			name: "nothing published",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				require.False(t, b.Published("rank"))
				c, ok := <-b.Subscribe("rank")
				require.Nil(t, c)
				require.False(t, ok, "subscription not closed")
			},
		},
		{
			name: "published until unpublished",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				require.True(t, b.TryPublish("versus", make(chan string)))
				require.True(t, b.Published("versus"))
				require.False(t, b.Published("rank"))
				b.Unpublish("versus")
				require.False(t, b.Published("versus"))
			},
		},
		{
			name: "second producer is refused",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				first := make(chan string)
				require.True(t, b.TryPublish("rank", first))
				require.False(t, b.TryPublish("rank", make(chan string)), "second producer replaced the first")
				require.True(t, b.TryPublish("trend", make(chan string)), "other IDs are independent")

				go func() {
					first <- "requesting"
					close(first)
				}()
				c := <-b.Subscribe("rank")
				require.Equal(t, "requesting", <-c, "subscriber got the refused producer's channel")

				b.Unpublish("rank")
				require.True(t, b.TryPublish("rank", make(chan string)), "ID not free after unpublish")
			},
		},
		{
			name: "concurrent producers, one wins",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				const producers = 50
				var accepted atomic.Int32
				var wg sync.WaitGroup
				for range producers {
					wg.Add(1)
					go func() {
						defer wg.Done()
						if b.TryPublish("versus", make(chan string)) {
							accepted.Add(1)
						}
					}()
				}
				wg.Wait()
				require.Equal(t, int32(1), accepted.Load())
			},
		},
		{
			name: "subsequent subscribers block until producer is finished",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				id := "crossfire"
				channel := make(chan string)
				require.True(t, b.TryPublish(id, channel))
				producerFinished := atomic.Bool{}

				subscriptionChan := <-b.Subscribe(id)

				done := make(chan struct{})
				next := b.Subscribe(id)
				go func() {
					defer close(done)
					nextSubscriptionChan, ok := <-next
					assert.Nil(t, nextSubscriptionChan, "subsequent subscriber received the producer channel")
					assert.False(t, ok, "channel not closed to signal producer is finished")
					assert.True(t, producerFinished.Load(), "producer not finished before subsequent subscriber unblocked")
				}()

				go func() {
					channel <- "written"
					close(channel)
					producerFinished.Store(true)
					b.Unpublish(id)
				}()
				require.Equal(t, "written", <-subscriptionChan, "subscriber did not receive progress")
				<-done

				last, ok := <-b.Subscribe(id)
				require.Nil(t, last, "late subscriber received the producer channel")
				require.False(t, ok, "late subscriber channel not closed")
			},
		},
		{
			name: "stop releases waiting subscribers",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				require.True(t, b.TryPublish("pricecheck", make(chan string)))
				<-b.Subscribe("pricecheck")
				waiting := b.Subscribe("pricecheck")
				require.False(t, b.Published("other"))
				b.Stop()
				_, ok := <-waiting
				require.False(t, ok)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := broker.NewChannelBroker[string, string]()
			go br.Start()
			t.Cleanup(br.Stop)
			tt.testFunc(t, br)
		})
	}
}

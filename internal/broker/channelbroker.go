// Package broker hands a producer's channel to a single consumer.
package broker

import "sync"

type publication[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan TPayload
	Result  chan bool
}

type subscription[TID comparable, TPayload any] struct {
	ID      TID
	Channel chan chan TPayload
}

type query[TID comparable] struct {
	ID     TID
	Result chan bool
}

// ChannelBroker passes a channel with ID from producer to the first consumer.
// Subsequent consumers block until the producer unpublishes, after which they
// read the finished state from wherever the producer persisted it.
//
// The API server uses it to stream refresh progress. The producer is the
// goroutine started by the refresh request and the consumer is the handler
// serving the event stream.
type ChannelBroker[TID comparable, TPayload any] struct {
	stopChannel      chan struct{}
	publishChannel   chan publication[TID, TPayload]
	unpublishChannel chan TID
	subscribeChannel chan subscription[TID, TPayload]
	queryChannel     chan query[TID]
	stopOnce         sync.Once
}

// NewChannelBroker creates a ChannelBroker. Call Start in a goroutine and Stop when done.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	return &ChannelBroker[TID, TPayload]{
		stopChannel:      make(chan struct{}),
		publishChannel:   make(chan publication[TID, TPayload]),
		unpublishChannel: make(chan TID),
		subscribeChannel: make(chan subscription[TID, TPayload]),
		queryChannel:     make(chan query[TID]),
	}
}

// Start handles publish, unpublish, query and subscribe events until Stop is called.
func (b *ChannelBroker[TID, TPayload]) Start() {
	published := map[TID]chan TPayload{}
	// consumed marks IDs whose channel was handed out. waiting holds the subscribers that came later.
	consumed := map[TID]bool{}
	waiting := map[TID][]chan chan TPayload{}
	for {
		select {
		case <-b.stopChannel:
			for _, subscribers := range waiting {
				for _, s := range subscribers {
					close(s)
				}
			}
			return

		case s := <-b.subscribeChannel:
			c, ok := published[s.ID]
			switch {
			case !ok:
				// Nothing running under this ID.
				close(s.Channel)
			case !consumed[s.ID]:
				consumed[s.ID] = true
				s.Channel <- c
			default:
				waiting[s.ID] = append(waiting[s.ID], s.Channel)
			}

		case p := <-b.publishChannel:
			if _, ok := published[p.ID]; ok {
				p.Result <- false
				continue
			}
			published[p.ID] = p.Channel
			p.Result <- true

		case q := <-b.queryChannel:
			_, ok := published[q.ID]
			q.Result <- ok

		case id := <-b.unpublishChannel:
			for _, s := range waiting[id] {
				close(s)
			}
			delete(published, id)
			delete(consumed, id)
			delete(waiting, id)
		}
	}
}

// Stop the goroutine running Start. Calling Stop more than once is allowed.
func (b *ChannelBroker[TID, TPayload]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopChannel)
	})
}

// Subscribe to the channel with ID. The returned channel receives the producer's channel
// if this is the first subscriber. Otherwise, or when nothing is published under ID, it is
// closed once the producer is finished.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	b.subscribeChannel <- subscription[TID, TPayload]{ID: id, Channel: channel}
	return channel
}

// TryPublish registers the channel with ID for the first subscriber. It reports false and
// leaves the existing producer in place when ID is already published.
func (b *ChannelBroker[TID, TPayload]) TryPublish(id TID, channel chan TPayload) bool {
	result := make(chan bool, 1)
	b.publishChannel <- publication[TID, TPayload]{ID: id, Channel: channel, Result: result}
	return <-result
}

// Published reports whether a producer is currently registered under ID.
func (b *ChannelBroker[TID, TPayload]) Published(id TID) bool {
	result := make(chan bool, 1)
	b.queryChannel <- query[TID]{ID: id, Result: result}
	return <-result
}

// Unpublish removes the channel with ID and releases waiting subscribers. Producers should
// use an unbuffered channel so that they block until a consumer shows up, with a timeout
// in case none does.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	b.unpublishChannel <- id
}

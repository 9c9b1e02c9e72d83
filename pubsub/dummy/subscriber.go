package dummy

import (
	"sync"

	"github.com/barnybug/gosomfy/pubsub"
)

// Subscriber for testing. Each subscription gets the matching Events in
// order, then its channel closes.
type Subscriber struct {
	Events []*pubsub.Event

	lock   sync.Mutex
	topics []pubsub.Topic
}

func (sub *Subscriber) ID() string {
	return "dummy"
}

func (sub *Subscriber) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	sub.lock.Lock()
	sub.topics = append(sub.topics, topics...)
	sub.lock.Unlock()

	var matched []*pubsub.Event
	for _, ev := range sub.Events {
		if pubsub.MatchAny(topics, ev.Topic) {
			matched = append(matched, ev)
		}
	}
	ch := make(chan *pubsub.Event, len(matched))
	for _, ev := range matched {
		ch <- ev
	}
	close(ch)
	return ch
}

// Subscribed lists every topic subscribed to so far.
func (sub *Subscriber) Subscribed() []string {
	sub.lock.Lock()
	defer sub.lock.Unlock()
	var ret []string
	for _, t := range sub.topics {
		ret = append(ret, t.String())
	}
	return ret
}

func (sub *Subscriber) Close(<-chan *pubsub.Event) {
}

package dummy

import (
	"sync"

	"github.com/barnybug/gosomfy/pubsub"
)

// Publisher for testing, recording emitted events.
type Publisher struct {
	Events []*pubsub.Event
	lock   sync.Mutex
}

func (self *Publisher) ID() string {
	return "dummy"
}

func (self *Publisher) Emit(ev *pubsub.Event) {
	self.lock.Lock()
	self.Events = append(self.Events, ev)
	self.lock.Unlock()
}

func (self *Publisher) Close() {
}

package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/barnybug/gosomfy/pubsub"
)

func replyTopic() string {
	return fmt.Sprintf("_rpc/%d", rand.Int())
}

// Query with `query`, waiting for `timeout` for results.
func Query(query string, timeout time.Duration) []*pubsub.Event {
	ch := QueryChannel(query, timeout)
	events := []*pubsub.Event{}
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

// Query with `query`, returning a channel of answers closed after `timeout`.
func QueryChannel(query string, timeout time.Duration) <-chan *pubsub.Event {
	replyTo := replyTopic()
	ch := Subscriber.Subscribe(pubsub.Exact(replyTo))

	SendQuery(query, "rpc", replyTo)

	// close the listener after timeout
	go func() {
		time.Sleep(timeout)
		Subscriber.Close(ch)
	}()

	return ch
}

// RPC asks a question expecting a single answer, eg. "somfy/status", and
// returns it as soon as it arrives.
func RPC(query string, timeout time.Duration) (*pubsub.Event, error) {
	replyTo := replyTopic()
	ch := Subscriber.Subscribe(pubsub.Exact(replyTo))
	defer Subscriber.Close(ch)

	SendQuery(query, "rpc", replyTo)
	select {
	case ev, ok := <-ch:
		if !ok {
			return nil, errors.Errorf("%s: subscription closed", query)
		}
		return ev, nil
	case <-time.After(timeout):
		return nil, errors.Errorf("%s: no answer after %s", query, timeout)
	}
}

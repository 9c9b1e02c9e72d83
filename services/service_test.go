package services

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/barnybug/gosomfy/pubsub/dummy"
)

type brokenService struct {
	MockService
}

func (service *brokenService) Init() error {
	return errors.New("no receiver")
}

func TestLaunch(t *testing.T) {
	Subscriber = &dummy.Subscriber{}
	Publisher = &dummy.Publisher{}
	Register(&MockService{id: "launched"})
	Register(&brokenService{MockService{id: "broken"}})

	assert.NoError(t, Launch([]string{"launched"}))

	err := Launch([]string{"launched", "missing"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "service missing does not exist")

	err = Launch([]string{"broken"})
	assert.EqualError(t, err, "initializing broken: no receiver")
}

func TestHeartbeatEvent(t *testing.T) {
	started := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := heartbeatEvent("somfy", started, started.Add(90*time.Second))
	assert.Equal(t, "heartbeat", ev.Topic)
	assert.Equal(t, "heartbeat.somfy", ev.Device())
	assert.Equal(t, 90, ev.Fields["uptime"])
	assert.Equal(t, "2020-06-01T12:00:00Z", ev.Fields["started"])
	assert.True(t, ev.Retained)
}

func TestRegisteredSorted(t *testing.T) {
	Register(&MockService{id: "zz-last"})
	Register(&MockService{id: "aa-first"})
	names := Registered()
	assert.Equal(t, "aa-first", names[0])
	assert.Equal(t, "zz-last", names[len(names)-1])
}

package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/pubsub/dummy"
)

type MockService struct {
	id            string
	queryHandlers map[string]QueryHandler
}

// ID of the service
func (service *MockService) ID() string {
	return service.id
}

// Run the service
func (service *MockService) Run() error {
	return nil
}

func (service *MockService) QueryHandlers() QueryHandlers {
	return service.queryHandlers
}

func ExampleQuerySubscriber() {
	fields := pubsub.Fields{"query": "help", "source": "cli", "reply_to": "_rpc/1"}
	query := pubsub.NewEvent("query", fields)
	li := dummy.Subscriber{
		Events: []*pubsub.Event{query},
	}
	Subscriber = &li
	em := dummy.Publisher{}
	Publisher = &em
	mock := MockService{
		id:            "abc",
		queryHandlers: map[string]QueryHandler{"help": StaticHandler("squiggle")},
	}
	enabled = []Service{&mock}
	QuerySubscriber()
	fmt.Println(len(em.Events))
	fmt.Println(em.Events[0].Topic)
	fmt.Println(em.Events[0].StringField("message"))
	fmt.Println(em.Events[0].StringField("target"))
	// Output:
	// 1
	// _rpc/1
	// squiggle
	// cli
}

func TestParseQuestion(t *testing.T) {
	ev := pubsub.NewEvent("query", pubsub.Fields{"query": "Somfy/Remotes A1B2C3", "source": "cli"})
	limit, q := parseQuestion(ev)
	assert.Equal(t, "somfy", limit)
	assert.Equal(t, Question{Verb: "remotes", Args: "A1B2C3", From: "cli"}, q)

	ev = pubsub.NewEvent("query", pubsub.Fields{"query": "status"})
	limit, q = parseQuestion(ev)
	assert.Equal(t, "", limit)
	assert.Equal(t, "status", q.Verb)
}

func TestHandleQueryLimit(t *testing.T) {
	em := dummy.Publisher{}
	Publisher = &em
	a := &MockService{id: "a", queryHandlers: QueryHandlers{"status": StaticHandler("a ok")}}
	b := &MockService{id: "b", queryHandlers: QueryHandlers{"status": StaticHandler("b ok")}}

	handleQuery(pubsub.NewEvent("query", pubsub.Fields{"query": "b/status"}), []Queryable{a, b})
	assert.Len(t, em.Events, 1)
	assert.Equal(t, "b ok", em.Events[0].StringField("message"))
	assert.Equal(t, "alert", em.Events[0].Topic)

	em.Events = nil
	handleQuery(pubsub.NewEvent("query", pubsub.Fields{"query": "status"}), []Queryable{a, b})
	assert.Len(t, em.Events, 2)

	em.Events = nil
	handleQuery(pubsub.NewEvent("query", pubsub.Fields{"query": "unknown"}), []Queryable{a, b})
	assert.Len(t, em.Events, 0)
}

func TestTextHandler(t *testing.T) {
	h := TextHandler(func(q Question) string { return "hello " + q.Args })
	assert.Equal(t, Answer{Text: "hello world"}, h(Question{Args: "world"}))
}

func TestRegister(t *testing.T) {
	Register(&MockService{id: "registered"})
	assert.Contains(t, Registered(), "registered")
}

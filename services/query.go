package services

import (
	"strings"
	"sync"

	"github.com/barnybug/gosomfy/pubsub"
)

type Question struct {
	Verb string
	Args string
	From string
}

type Answer struct {
	Text string
	Json interface{}
}

type QueryHandler func(q Question) Answer

type QueryHandlers map[string]QueryHandler

type Queryable interface {
	ID() string
	QueryHandlers() QueryHandlers
}

// TextHandler adapts a string return value to an Answer
func TextHandler(fn func(q Question) string) func(q Question) Answer {
	return func(q Question) Answer {
		text := fn(q)
		return Answer{Text: text}
	}
}

func answerEvent(request *pubsub.Event, source string, answer Answer) *pubsub.Event {
	fields := pubsub.Fields{
		"source": source,
		"target": request.StringField("source"),
	}
	if answer.Text != "" {
		fields["message"] = answer.Text
	}
	if answer.Json != nil {
		fields["json"] = answer.Json
	}

	topic := "alert"
	if replyTo := request.StringField("reply_to"); replyTo != "" {
		topic = replyTo
	}
	return pubsub.NewEvent(topic, fields)
}

// StaticHandler just returns a hardcoded string - useful for "help"
func StaticHandler(msg string) QueryHandler {
	return func(_ Question) Answer {
		return Answer{Text: msg}
	}
}

func parseQuestion(ev *pubsub.Event) (string, Question) {
	parts := strings.SplitN(ev.StringField("query"), " ", 2)
	args := ""
	if len(parts) > 1 {
		args = parts[1]
	}
	first := strings.ToLower(parts[0])
	ps := strings.SplitN(first, "/", 2)
	limit := ""
	if len(ps) == 2 {
		limit = ps[0]
	}
	verb := ps[len(ps)-1]
	return limit, Question{Verb: verb, Args: args, From: ev.StringField("source")}
}

func handleQuery(ev *pubsub.Event, queryables []Queryable) {
	limit, q := parseQuestion(ev)
	var wg sync.WaitGroup
	for _, service := range queryables {
		if limit != "" && limit != service.ID() {
			continue
		}
		if handler, ok := service.QueryHandlers()[q.Verb]; ok {
			wg.Add(1)
			go func(service Queryable, handler QueryHandler) {
				defer wg.Done()
				a := handler(q)
				Publisher.Emit(answerEvent(ev, service.ID(), a))
			}(service, handler)
		}
	}
	wg.Wait()
}

func queryablesOf(ss []Service) []Queryable {
	var queryables []Queryable
	for _, service := range ss {
		if qs, ok := service.(Queryable); ok {
			queryables = append(queryables, qs)
		}
	}
	return queryables
}

func serveQueries(queryables []Queryable) {
	if len(queryables) == 0 {
		// no point running if no Queryable services
		return
	}
	for ev := range Subscriber.Subscribe(pubsub.Exact("query")) {
		handleQuery(ev, queryables)
	}
}

// QuerySubscriber answers queries for the enabled services.
func QuerySubscriber() {
	serveQueries(queryablesOf(enabled))
}

package services

import "github.com/barnybug/gosomfy/pubsub"

func SendQuery(query, source, replyTo string) {
	fields := pubsub.Fields{
		"source":   source,
		"query":    query,
		"reply_to": replyTo,
	}
	ev := pubsub.NewEvent("query", fields)
	Publisher.Emit(ev)
}

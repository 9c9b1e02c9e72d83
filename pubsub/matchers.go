package pubsub

import "strings"

// Topic selects events by their topic.
type Topic interface {
	Match(topic string) bool
	String() string
}

// MatchAny reports whether any of topics selects topic.
func MatchAny(topics []Topic, topic string) bool {
	for _, t := range topics {
		if t.Match(topic) {
			return true
		}
	}
	return false
}

// PrefixTopic selects a topic and anything beneath it: "somfy" selects
// "somfy/A1B2C3" but not "somfy2".
type PrefixTopic struct {
	Prefix string
}

func Prefix(prefix string) *PrefixTopic {
	return &PrefixTopic{Prefix: strings.TrimSuffix(prefix, "/")}
}

func (t *PrefixTopic) Match(topic string) bool {
	return topic == t.Prefix || strings.HasPrefix(topic, t.Prefix+"/")
}

func (t *PrefixTopic) String() string {
	return t.Prefix + "/*"
}

// AllTopic selects everything.
type AllTopic struct{}

func All() *AllTopic {
	return &AllTopic{}
}

func (t *AllTopic) Match(string) bool {
	return true
}

func (t *AllTopic) String() string {
	return "*"
}

type ExactTopic struct {
	Exact string
}

func Exact(exact string) *ExactTopic {
	return &ExactTopic{Exact: exact}
}

func (t *ExactTopic) Match(topic string) bool {
	return topic == t.Exact
}

func (t *ExactTopic) String() string {
	return t.Exact
}

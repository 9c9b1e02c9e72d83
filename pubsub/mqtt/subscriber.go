package mqtt

import (
	"log"
	"strings"
	"sync"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/barnybug/gosomfy/pubsub"
)

type eventChannel struct {
	C      chan *pubsub.Event
	topics []pubsub.Topic
}

// Subscriber fans events from the broker out to channels by topic. mqtt
// subscriptions are reference counted across channels.
type Subscriber struct {
	broker   *Broker
	channels []eventChannel
	refs     map[string]int
	lock     sync.Mutex
}

func NewSubscriber(broker *Broker) *Subscriber {
	return &Subscriber{broker: broker, refs: map[string]int{}}
}

func (self *Subscriber) ID() string {
	return self.broker.ID()
}

func (self *Subscriber) publishHandler(client MQTT.Client, msg MQTT.Message) {
	topic := strings.TrimPrefix(msg.Topic(), topicRoot)
	event := pubsub.Parse(string(msg.Payload()), topic)
	if event == nil {
		return
	}
	event.SetRetained(msg.Retained())
	self.dispatch(topic, event)
}

func (self *Subscriber) dispatch(topic string, event *pubsub.Event) {
	self.lock.Lock()
	defer self.lock.Unlock()
	for _, ch := range self.channels {
		if pubsub.MatchAny(ch.topics, topic) {
			ch.C <- event
		}
	}
}

// subscriptions currently held, as mqtt topic to QOS.
func (self *Subscriber) subscriptions() map[string]byte {
	self.lock.Lock()
	defer self.lock.Unlock()
	subs := map[string]byte{}
	for topic := range self.refs {
		subs[topic] = 1
	}
	return subs
}

func topicToMqtt(topic pubsub.Topic) string {
	switch topic := topic.(type) {
	case *pubsub.AllTopic:
		return topicRoot + "#"
	case *pubsub.ExactTopic:
		return topicRoot + topic.Exact
	case *pubsub.PrefixTopic:
		return topicRoot + topic.Prefix + "/#"
	default:
		log.Panicln("Topic type unsupported")
	}
	return ""
}

func (self *Subscriber) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	ch := eventChannel{
		C:      make(chan *pubsub.Event, 16),
		topics: topics,
	}
	subs := map[string]byte{}
	self.lock.Lock()
	for _, topic := range topics {
		t := topicToMqtt(topic)
		if self.refs[t] == 0 {
			subs[t] = 1 // QOS
		}
		self.refs[t]++
	}
	self.channels = append(self.channels, ch)
	self.lock.Unlock()

	if len(subs) > 0 && self.broker.client != nil {
		if token := self.broker.client.SubscribeMultiple(subs, nil); token.Wait() && token.Error() != nil {
			log.Println("Error subscribing:", token.Error())
		}
	}
	return ch.C
}

// Close removes channel and closes it, unsubscribing topics no other channel
// wants.
func (self *Subscriber) Close(channel <-chan *pubsub.Event) {
	var unsubscribe []string
	self.lock.Lock()
	var kept []eventChannel
	for _, ch := range self.channels {
		if channel != (<-chan *pubsub.Event)(ch.C) {
			kept = append(kept, ch)
			continue
		}
		for _, topic := range ch.topics {
			t := topicToMqtt(topic)
			self.refs[t]--
			if self.refs[t] <= 0 {
				delete(self.refs, t)
				unsubscribe = append(unsubscribe, t)
			}
		}
		close(ch.C)
	}
	self.channels = kept
	self.lock.Unlock()

	if len(unsubscribe) == 0 || self.broker.client == nil {
		return
	}
	if token := self.broker.client.Unsubscribe(unsubscribe...); token.Wait() && token.Error() != nil {
		log.Println("Error unsubscribing:", token.Error())
	}
}

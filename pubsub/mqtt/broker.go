// Package mqtt carries pubsub events over an MQTT broker. All topics are
// published under gohome/.
package mqtt

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
)

const topicRoot = "gohome/"

type Broker struct {
	broker     string
	client     MQTT.Client
	subscriber *Subscriber
	// raw subscriptions outside topicRoot, by mqtt topic
	raw     map[string]MQTT.MessageHandler
	rawLock sync.Mutex
}

func clientID(name string) string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("gosomfy/%s/%s-%d-%d", name, hostname, os.Getpid(), rand.Int())
}

func newBroker(broker string) *Broker {
	self := &Broker{broker: broker, raw: map[string]MQTT.MessageHandler{}}
	self.subscriber = NewSubscriber(self)
	return self
}

// NewBroker connects to broker, eg. tcp://127.0.0.1:1883.
func NewBroker(broker string, name string) (*Broker, error) {
	self := newBroker(broker)

	opts := MQTT.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID(name))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetDefaultPublishHandler(self.subscriber.publishHandler)
	opts.SetOnConnectHandler(self.onConnect)
	opts.SetConnectionLostHandler(func(client MQTT.Client, err error) {
		log.Println("Connection lost:", err)
	})

	self.client = MQTT.NewClient(opts)
	if token := self.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to %s", broker)
	}
	return self, nil
}

func (self *Broker) ID() string {
	return "mqtt: " + self.broker
}

func (self *Broker) Subscriber() *Subscriber {
	return self.subscriber
}

func (self *Broker) Publisher() *Publisher {
	return &Publisher{broker: self.broker, client: self.client}
}

// onConnect restores every subscription, as a clean session starts with none.
func (self *Broker) onConnect(client MQTT.Client) {
	if subs := self.subscriber.subscriptions(); len(subs) > 0 {
		log.Println("Connected, subscribing:", subs)
		// nil = all messages go to the default handler
		if token := client.SubscribeMultiple(subs, nil); token.Wait() && token.Error() != nil {
			log.Println("Error subscribing:", token.Error())
		}
	}

	self.rawLock.Lock()
	raw := make(map[string]MQTT.MessageHandler, len(self.raw))
	for topic, handler := range self.raw {
		raw[topic] = handler
	}
	self.rawLock.Unlock()
	for topic, handler := range raw {
		log.Println("Connected, subscribing:", topic)
		if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			log.Println("Error subscribing:", token.Error())
		}
	}
}

// SubscribeRaw subscribes handler to an mqtt topic outside gohome/, for
// consuming other programs' output. The subscription survives reconnects.
func (self *Broker) SubscribeRaw(topic string, handler func(topic string, payload []byte)) error {
	callback := func(client MQTT.Client, msg MQTT.Message) {
		handler(msg.Topic(), msg.Payload())
	}
	self.rawLock.Lock()
	self.raw[topic] = callback
	self.rawLock.Unlock()

	if self.client == nil {
		return nil
	}
	token := self.client.Subscribe(topic, 1, callback)
	if token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "subscribing to %s", topic)
	}
	return nil
}

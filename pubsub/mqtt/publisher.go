package mqtt

import (
	"log"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/barnybug/gosomfy/pubsub"
)

// Publisher for mqtt
type Publisher struct {
	broker string
	client MQTT.Client
}

// ID of Publisher
func (pub *Publisher) ID() string {
	return "mqtt: " + pub.broker
}

// Emit an event, blocking until the broker acknowledges it.
func (pub *Publisher) Emit(ev *pubsub.Event) {
	token := pub.client.Publish(topicRoot+ev.Topic, 1, ev.Retained, ev.Bytes())
	if token.Wait() && token.Error() != nil {
		log.Println("Error publishing:", token.Error())
	}
}

func (pub *Publisher) Close() {
	pub.client.Disconnect(250)
}

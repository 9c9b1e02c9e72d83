// Service to take Somfy RTS decodes from rtl_433's own decoder, published with
// `rtl_433 -F mqtt`, and translate them to somfy events.
package rtl433

import (
	"encoding/json"
	"log"

	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/rts"
	"github.com/barnybug/gosomfy/services"
)

// Service rtl433
type Service struct {
}

func (self *Service) ID() string {
	return "rtl433"
}

func translateEvent(data map[string]interface{}) *pubsub.Event {
	model, _ := data["model"].(string)
	if model != rts.Model {
		return nil
	}
	address, _ := data["address"].(string)
	fields := pubsub.Fields{
		"source": "somfy." + address,
	}
	for key, value := range data {
		switch key {
		case "model", "mic", "time", "brand":
			continue
		case "retransmission":
			fields[key] = value == "TRUE"
		case "control":
			fields[key] = value
			label, _ := value.(string)
			if c, ok := rts.ParseControl(label); ok && !c.Reserved() {
				fields["command"] = c.Command()
			}
		default:
			fields[key] = value // map unknowns as is
		}
	}
	ev := pubsub.NewEvent("somfy", fields)
	services.Config.AddDeviceToEvent(ev)
	return ev
}

func parse(payload []byte) map[string]interface{} {
	var data map[string]interface{}
	err := json.Unmarshal(payload, &data)
	if err != nil {
		return nil
	}
	return data
}

func (self *Service) Run() error {
	err := services.Broker.SubscribeRaw("rtl_433/+/events", func(topic string, payload []byte) {
		data := parse(payload)
		if data == nil {
			log.Println("Ignoring unparseable message on", topic)
			return
		}
		if ev := translateEvent(data); ev != nil {
			services.Publisher.Emit(ev)
		}
	})
	if err != nil {
		return err
	}

	select {}
}

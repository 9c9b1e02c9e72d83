package services

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/barnybug/gosomfy/config"
	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/pubsub/mqtt"
	"github.com/barnybug/gosomfy/util"
)

// Service interface
type Service interface {
	ID() string
	Run() error
}

// ServiceInit interface
type ServiceInit interface {
	Service
	Init() error
}

var serviceMap map[string]Service = map[string]Service{}
var enabled []Service
var Config *config.Config

var Publisher pubsub.Publisher
var Subscriber pubsub.Subscriber
var Broker *mqtt.Broker

func SetupLogging() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stdout)
}

// LoadConfig reads the config file, falling back to defaults if there is none.
func LoadConfig() {
	conf, err := config.Open()
	if os.IsNotExist(err) {
		log.Println("No config file, using defaults:", config.ConfigPath("gosomfy.yml"))
		conf, err = config.OpenRaw(nil)
	}
	if err != nil {
		log.Fatalln("Error reading config:", err)
	}
	Config = conf
}

func SetupBroker(name string) {
	url := Config.Broker()
	if url == "" {
		log.Fatalln("Set GOSOMFY_MQTT or endpoints.mqtt.broker to the mqtt server. eg: tcp://127.0.0.1:1883")
	}

	broker, err := mqtt.NewBroker(url, name)
	if err != nil {
		log.Fatalln("Failed to connect:", err)
	}
	Broker = broker
	Publisher = broker.Publisher()
	Subscriber = broker.Subscriber()
}

func Setup(name string) {
	if Config == nil {
		LoadConfig()
	}
	SetupBroker(name)
}

// Launch initializes and runs the named services, answering queries for them,
// until one of them fails.
func Launch(names []string) error {
	enabled = []Service{}
	for _, name := range names {
		service, ok := serviceMap[name]
		if !ok {
			return errors.Errorf("service %s does not exist (have: %s)", name, strings.Join(Registered(), ", "))
		}
		enabled = append(enabled, service)
	}

	for _, service := range enabled {
		if si, ok := service.(ServiceInit); ok {
			if err := si.Init(); err != nil {
				return errors.Wrapf(err, "initializing %s", service.ID())
			}
			log.Printf("Initialized %s\n", service.ID())
		}
	}

	go serveQueries(queryablesOf(enabled))

	errs := make(chan error, len(enabled))
	for _, service := range enabled {
		log.Printf("Starting %s\n", service.ID())
		go Heartbeat(service.ID())
		go func(service Service) {
			errs <- errors.Wrapf(service.Run(), "running %s", service.ID())
		}(service)
	}
	for range enabled {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}

const heartbeatInterval = time.Minute

func heartbeatEvent(id string, started, now time.Time) *pubsub.Event {
	ev := pubsub.NewEvent("heartbeat", pubsub.Fields{
		"device":  "heartbeat." + id,
		"pid":     os.Getpid(),
		"started": started.Format(time.RFC3339),
		"uptime":  int(now.Sub(started).Seconds()),
	})
	ev.SetRetained(true)
	return ev
}

// Heartbeat publishes a retained liveness event for service id every minute.
func Heartbeat(id string) {
	started := time.Now()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		Publisher.Emit(heartbeatEvent(id, started, now))
	}
}

func Register(service Service) {
	if _, exists := serviceMap[service.ID()]; exists {
		log.Fatalf("Duplicate service registered: %s", service.ID())
	}
	serviceMap[service.ID()] = service
}

// Registered service names, sorted.
func Registered() []string {
	return util.SortedKeys(serviceMap)
}

func Shutdown() {
	if Publisher != nil {
		Publisher.Close()
	}
}

package config

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/rts"
	"github.com/barnybug/gosomfy/util"
)

// DeviceConf describes a named device, eg. blind.lounge. Type defaults to the
// part of the id before the first dot.
type DeviceConf struct {
	Id       string `yaml:"-"`
	Name     string
	Type     string
	Location string
}

type EndpointsConf struct {
	Mqtt struct {
		Broker string
	}
}

type Duration struct {
	Duration time.Duration
}

func (self *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	self.Duration = d
	return nil
}

// DemodConf overrides the demodulator timings, in microseconds, for receivers
// that need it.
type DemodConf struct {
	Short     int
	Long      int
	Gap       int
	Reset     int
	Tolerance int
}

type SomfyConf struct {
	// Topic pulse rows arrive on.
	Topic   string
	Verbose int
	// Metrics is a listen address for prometheus, eg. :9433.
	Metrics string
	// Dedup is how long a repeated counter from the same remote is ignored.
	Dedup *Duration
	Demod DemodConf
}

// Configuration structure
type Config struct {
	// yaml fields
	Devices   map[string]DeviceConf
	Protocols map[string]map[string]string
	Endpoints EndpointsConf
	Somfy     SomfyConf
}

const (
	DefaultTopic = "pulses"
	DefaultDedup = 2 * time.Second
)

// Open configuration from disk.
func Open() (*Config, error) {
	file, err := os.Open(ConfigPath("gosomfy.yml"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return OpenReader(file)
}

// Open configuration from a reader.
func OpenReader(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenRaw(data)
}

// Open configuration from []byte.
func OpenRaw(data []byte) (*Config, error) {
	self := &Config{}
	err := yaml.Unmarshal(data, self)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	for id, device := range self.Devices {
		device.Id = id
		if device.Type == "" {
			device.Type = strings.SplitN(id, ".", 2)[0]
		}
		self.Devices[id] = device
	}

	return self, nil
}

func Must(c *Config, err error) *Config {
	if err != nil {
		panic(err)
	}
	return c
}

func (self *Config) AddDeviceToEvent(ev *pubsub.Event) {
	if device := self.LookupDeviceName(ev); device != "" {
		ev.SetField("device", device)
	}
}

// Find the device name for an event by its source, protocol.id
func (self *Config) LookupDeviceName(ev *pubsub.Event) string {
	ps := strings.SplitN(ev.Source(), ".", 2)
	protocol := ps[0]
	var id string
	if len(ps) > 1 {
		id = ps[1]
	}
	return self.Protocols[protocol][id]
}

// Find the protocol and identifier for by device name
func (self *Config) LookupDeviceProtocol(matchName string) map[string]string {
	ret := map[string]string{}
	for protocol, value := range self.Protocols {
		for id, name := range value {
			if name == matchName {
				ret[protocol] = id
			}
		}
	}
	return ret
}

// Device returns the Somfy RTS demodulator settings with any overrides.
func (self *Config) Device() rts.Device {
	d := rts.DefaultDevice
	demod := self.Somfy.Demod
	if demod.Short != 0 {
		d.ShortWidth = demod.Short
	}
	if demod.Long != 0 {
		d.LongWidth = demod.Long
	}
	if demod.Gap != 0 {
		d.GapLimit = demod.Gap
	}
	if demod.Reset != 0 {
		d.ResetLimit = demod.Reset
	}
	if demod.Tolerance != 0 {
		d.Tolerance = demod.Tolerance
	}
	return d
}

func (self *Config) Topic() string {
	if self.Somfy.Topic == "" {
		return DefaultTopic
	}
	return self.Somfy.Topic
}

func (self *Config) Dedup() time.Duration {
	if self.Somfy.Dedup == nil {
		return DefaultDedup
	}
	return self.Somfy.Dedup.Duration
}

// Broker is the mqtt endpoint, GOSOMFY_MQTT taking precedence.
func (self *Config) Broker() string {
	if url := os.Getenv("GOSOMFY_MQTT"); url != "" {
		return url
	}
	return self.Endpoints.Mqtt.Broker
}

// helpers

// Resolve a configuration file under .config/gosomfy, or GOSOMFY_CONFIG if
// set.
func ConfigPath(p string) string {
	if env := os.Getenv("GOSOMFY_CONFIG"); env != "" {
		return util.ExpandUser(env)
	}
	return filepath.Join(util.ConfigDir("gosomfy"), p)
}

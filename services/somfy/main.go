// Service to decode Somfy RTS remote controls from demodulated pulse rows and
// translate them to command events.
//
// Rows arrive as events on the configured topic (default "pulses") with a
// "codes" field in rtl_433 codes notation, eg. from rtl_433 -X with the flex
// spec printed by `gosomfy device`.
package somfy

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/barnybug/gosomfy/bitbuffer"
	"github.com/barnybug/gosomfy/config"
	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/rts"
	"github.com/barnybug/gosomfy/services"
	"github.com/barnybug/gosomfy/util"
)

type remote struct {
	counter uint16
	control rts.Control
	seen    time.Time
}

// Service somfy
type Service struct {
	config  *config.Config
	decoder rts.Decoder
	dedup   time.Duration
	remotes map[string]*remote
	counts  map[string]int
	lock    sync.Mutex
	now     func() time.Time
}

func (self *Service) ID() string {
	return "somfy"
}

func (self *Service) initialize(conf *config.Config) {
	self.config = conf
	self.decoder = rts.Decoder{Verbose: conf.Somfy.Verbose}
	self.dedup = conf.Dedup()
	self.remotes = map[string]*remote{}
	self.counts = map[string]int{}
	if self.now == nil {
		self.now = time.Now
	}
}

func (self *Service) Init() error {
	self.initialize(services.Config)
	device := self.config.Device()
	log.Println("Device:", device)
	log.Println("Capture with: rtl_433 -X", device.FlexSpec("somfy"))
	if addr := self.config.Somfy.Metrics; addr != "" {
		go serveMetrics(addr)
	}
	return nil
}

func translateMessage(m *rts.Message) *pubsub.Event {
	address := m.AddressHex()
	fields := pubsub.Fields{
		"source":         "somfy." + address,
		"address":        address,
		"id":             m.ID(),
		"control":        m.Control.String(),
		"counter":        m.Counter,
		"retransmission": m.Retransmission,
	}
	if command := m.Control.Command(); command != "" {
		fields["command"] = command
	}
	return pubsub.NewEvent("somfy", fields)
}

func (self *Service) record(result string) {
	self.lock.Lock()
	self.counts[result]++
	self.lock.Unlock()
	decodesTotal.WithLabelValues(result).Inc()
}

// duplicate notes m against its remote, reporting whether it repeats the last
// counter seen within the dedup window.
func (self *Service) duplicate(m *rts.Message) bool {
	now := self.now()
	address := m.AddressHex()
	self.lock.Lock()
	defer self.lock.Unlock()
	r, ok := self.remotes[address]
	if !ok {
		r = &remote{}
		self.remotes[address] = r
	}
	dup := ok && r.counter == m.Counter && now.Sub(r.seen) < self.dedup
	r.counter = m.Counter
	r.control = m.Control
	r.seen = now
	return dup
}

func (self *Service) handle(ev *pubsub.Event) *pubsub.Event {
	codes := ev.StringField("codes")
	if codes == "" {
		return nil
	}
	bb, err := bitbuffer.Parse(codes)
	if err != nil {
		log.Println("Ignoring unparseable rows:", err)
		self.record(rts.Result(err))
		return nil
	}
	m, err := self.decoder.Decode(bb)
	self.record(rts.Result(err))
	if err != nil {
		if self.decoder.Verbose > 0 {
			log.Println("Decode failed:", err)
		}
		return nil
	}
	if self.duplicate(m) {
		self.record("duplicate")
		return nil
	}

	commandsTotal.WithLabelValues(m.Control.String()).Inc()
	out := translateMessage(m)
	self.config.AddDeviceToEvent(out)
	if self.decoder.Verbose > 0 {
		log.Println("Decoded:", m)
	}
	return out
}

func (self *Service) queryStatus(q services.Question) string {
	self.lock.Lock()
	defer self.lock.Unlock()
	var parts []string
	for _, key := range []string{"ok", "duplicate", "sanity", "integrity", "error"} {
		parts = append(parts, fmt.Sprintf("%s: %d", key, self.counts[key]))
	}
	return fmt.Sprintf("Remotes: %d\n%s", len(self.remotes), strings.Join(parts, " "))
}

func (self *Service) queryRemotes(q services.Question) string {
	now := self.now()
	self.lock.Lock()
	defer self.lock.Unlock()
	if len(self.remotes) == 0 {
		return "No remotes seen"
	}
	var lines []string
	for _, address := range util.SortedKeys(self.remotes) {
		if q.Args != "" && !strings.EqualFold(q.Args, address) {
			continue
		}
		r := self.remotes[address]
		ev := pubsub.NewEvent("somfy", pubsub.Fields{"source": "somfy." + address})
		name := self.config.LookupDeviceName(ev)
		if name == "" {
			name = "-"
		}
		lines = append(lines, fmt.Sprintf("%s %s counter=%d %s %s ago",
			address, name, r.counter, r.control, util.ShortDuration(now.Sub(r.seen))))
	}
	if len(lines) == 0 {
		return "Remote not seen"
	}
	return strings.Join(lines, "\n")
}

// queryDevices lists the configured somfy devices and when each last sent.
func (self *Service) queryDevices(q services.Question) string {
	now := self.now()
	self.lock.Lock()
	defer self.lock.Unlock()
	var lines []string
	for _, id := range util.SortedKeys(self.config.Devices) {
		address, ok := self.config.LookupDeviceProtocol(id)["somfy"]
		if !ok {
			continue
		}
		device := self.config.Devices[id]
		seen := "never seen"
		if r, ok := self.remotes[strings.ToUpper(address)]; ok {
			seen = util.ShortDuration(now.Sub(r.seen)) + " ago"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s (%s): %s",
			id, address, device.Type, device.Name, device.Location, seen))
	}
	if len(lines) == 0 {
		return "No somfy devices configured"
	}
	return strings.Join(lines, "\n")
}

func (self *Service) QueryHandlers() services.QueryHandlers {
	return services.QueryHandlers{
		"status":  services.TextHandler(self.queryStatus),
		"remotes": services.TextHandler(self.queryRemotes),
		"devices": services.TextHandler(self.queryDevices),
		"help": services.StaticHandler("" +
			"status: decode counts\n" +
			"remotes [address]: remotes seen\n" +
			"devices: configured devices\n"),
	}
}

func (self *Service) Run() error {
	for ev := range services.Subscriber.Subscribe(pubsub.Exact(self.config.Topic())) {
		if out := self.handle(ev); out != nil {
			services.Publisher.Emit(out)
		}
	}
	return nil
}

package somfy

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barnybug/gosomfy/config"
	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/pubsub/dummy"
	"github.com/barnybug/gosomfy/services"
)

const (
	firstFrame     = "{12}fff0/{137}f0f0ff4cb34ab4cab4cb32ad334ab532b280"
	retransmission = "{177}f0f0f0f0f0f0f0ff4cb34ab4cab4cb32ad334ab532b280"
	truncated      = "{133}f0f0ff4cb34ab4cab4cb32ad334ab532b280"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newService() (*Service, *clock) {
	c := &clock{t: time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := &Service{now: c.now}
	service.initialize(config.ExampleConfig)
	return service, c
}

func pulses(codes string) *pubsub.Event {
	return pubsub.NewEvent("pulses", pubsub.Fields{"codes": codes})
}

func fixTimestamp(ev *pubsub.Event) {
	loc, _ := time.LoadLocation("UTC")
	ev.Timestamp = time.Date(2014, 1, 2, 3, 4, 5, 987654321, loc)
}

func TestInterfaces(t *testing.T) {
	var _ services.Service = (*Service)(nil)
	var _ services.ServiceInit = (*Service)(nil)
	var _ services.Queryable = (*Service)(nil)
}

func ExampleService_handle() {
	service, _ := newService()
	ev := service.handle(pulses(firstFrame))
	fixTimestamp(ev)
	fmt.Println(ev)
	// Output:
	// {"address":"A1B2C3","command":"up","control":"Up (2)","counter":18,"device":"blind.lounge","id":12825249,"retransmission":false,"source":"somfy.A1B2C3","timestamp":"2014-01-02 03:04:05.987654","topic":"somfy"}
}

func ExampleService_handle_failures() {
	service, _ := newService()
	fmt.Println(service.handle(pulses("")))
	fmt.Println(service.handle(pulses("{8}zz")))
	fmt.Println(service.handle(pulses("{16}ffff")))
	fmt.Println(service.handle(pulses(truncated)))
	// Output:
	// <nil>
	// <nil>
	// <nil>
	// <nil>
}

func TestHandleRetransmission(t *testing.T) {
	service, _ := newService()
	ev := service.handle(pulses(retransmission))
	require.NotNil(t, ev)
	assert.Equal(t, true, ev.Fields["retransmission"])
	assert.Equal(t, "blind.lounge", ev.Device())
	assert.Equal(t, "up", ev.Command())
}

func TestHandleDeduplicates(t *testing.T) {
	service, clock := newService()
	assert.NotNil(t, service.handle(pulses(firstFrame)))
	clock.advance(100 * time.Millisecond)
	assert.Nil(t, service.handle(pulses(retransmission)))
	clock.advance(100 * time.Millisecond)
	assert.Nil(t, service.handle(pulses(retransmission)))

	// same counter after the window is a fresh press
	clock.advance(6 * time.Second)
	assert.NotNil(t, service.handle(pulses(firstFrame)))

	assert.Equal(t, 2, service.counts["ok"]-service.counts["duplicate"])
	assert.Equal(t, 2, service.counts["duplicate"])
}

func TestHandleCountsMetrics(t *testing.T) {
	service, _ := newService()
	before := testutil.ToFloat64(decodesTotal.WithLabelValues("integrity"))
	service.handle(pulses(truncated))
	assert.Equal(t, before+1, testutil.ToFloat64(decodesTotal.WithLabelValues("integrity")))

	before = testutil.ToFloat64(commandsTotal.WithLabelValues("Up (2)"))
	service.handle(pulses(firstFrame))
	assert.Equal(t, before+1, testutil.ToFloat64(commandsTotal.WithLabelValues("Up (2)")))
}

func TestQueryStatus(t *testing.T) {
	service, _ := newService()
	service.handle(pulses(firstFrame))
	service.handle(pulses(retransmission))
	service.handle(pulses("{16}ffff"))
	service.handle(pulses(truncated))
	service.handle(pulses("{8}zz"))
	assert.Equal(t, "Remotes: 1\nok: 2 duplicate: 1 sanity: 1 integrity: 1 error: 1", service.queryStatus(services.Question{}))
}

func TestQueryRemotes(t *testing.T) {
	service, clock := newService()
	assert.Equal(t, "No remotes seen", service.queryRemotes(services.Question{}))

	service.handle(pulses(firstFrame))
	clock.advance(65 * time.Second)
	assert.Equal(t, "A1B2C3 blind.lounge counter=18 Up (2) 1m 5s ago", service.queryRemotes(services.Question{}))
	assert.Equal(t, "A1B2C3 blind.lounge counter=18 Up (2) 1m 5s ago", service.queryRemotes(services.Question{Args: "a1b2c3"}))
	assert.Equal(t, "Remote not seen", service.queryRemotes(services.Question{Args: "000000"}))
}

func TestRun(t *testing.T) {
	services.Config = config.ExampleConfig
	sub := &dummy.Subscriber{
		Events: []*pubsub.Event{
			pulses(firstFrame),
			pubsub.NewEvent("other", pubsub.Fields{"codes": firstFrame}),
			pulses(truncated),
		},
	}
	services.Subscriber = sub
	em := &dummy.Publisher{}
	services.Publisher = em

	service, _ := newService()
	require.NoError(t, service.Run())
	assert.Equal(t, []string{"pulses"}, sub.Subscribed())
	require.Len(t, em.Events, 1)
	assert.Equal(t, "somfy", em.Events[0].Topic)
	assert.Equal(t, "somfy.A1B2C3", em.Events[0].Source())
}

func TestQueryDevices(t *testing.T) {
	service, clock := newService()
	service.handle(pulses(firstFrame))
	clock.advance(5 * time.Second)
	assert.Equal(t, ""+
		"awning.patio 0F1E2D awning Patio awning (Garden): never seen\n"+
		"blind.kitchen A2B2C3 motor Kitchen blind (Kitchen): never seen\n"+
		"blind.lounge A1B2C3 blind Lounge blind (Lounge): 5s ago",
		service.queryDevices(services.Question{}))

	service.config = config.Must(config.OpenRaw(nil))
	assert.Equal(t, "No somfy devices configured", service.queryDevices(services.Question{}))
}

func TestQueryHandlers(t *testing.T) {
	service, _ := newService()
	handlers := service.QueryHandlers()
	for _, verb := range []string{"status", "remotes", "devices", "help"} {
		assert.Contains(t, handlers, verb)
	}
	assert.Contains(t, handlers["help"](services.Question{}).Text, "devices")
}

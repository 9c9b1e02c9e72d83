package rts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	Model = "Somfy-RTS"
	// Mic names the integrity check applied to every message.
	Mic = "CHECKSUM"
)

// Message is a validated, descrambled Somfy RTS command.
type Message struct {
	Seed           byte
	Control        Control
	Checksum       byte
	Counter        uint16
	Address        [3]byte
	Retransmission bool
}

func newMessage(p Payload, retransmission bool) *Message {
	return &Message{
		Seed:           p[0],
		Control:        Control(p[1] >> 4),
		Checksum:       p[1] & 0xf,
		Counter:        uint16(p[2])<<8 | uint16(p[3]),
		Address:        [3]byte{p[4], p[5], p[6]},
		Retransmission: retransmission,
	}
}

// AddressHex is the channel address as printed by the vendor, in
// transmission order.
func (m *Message) AddressHex() string {
	return fmt.Sprintf("%02X%02X%02X", m.Address[0], m.Address[1], m.Address[2])
}

// ID is the channel address read little endian. Channels of one remote have
// consecutive IDs.
func (m *Message) ID() uint32 {
	return uint32(m.Address[2])<<16 | uint32(m.Address[1])<<8 | uint32(m.Address[0])
}

func boolString(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Field is one entry of the output record.
type Field struct {
	Key   string
	Label string
	Value interface{}
}

// OutputFields is the default display order.
var OutputFields = []string{
	"model",
	"control",
	"counter",
	"address",
	"retransmission",
}

// Data returns the full output record in order.
func (m *Message) Data() []Field {
	return []Field{
		{"model", "", Model},
		{"id", "Id", int(m.ID())},
		{"control", "Control", m.Control.String()},
		{"counter", "Counter", int(m.Counter)},
		{"address", "Address", m.AddressHex()},
		{"retransmission", "Retransmission", boolString(m.Retransmission)},
		{"mic", "Integrity", Mic},
	}
}

// Map returns the output record keyed by field name, the shape rtl_433
// publishes as JSON.
func (m *Message) Map() map[string]interface{} {
	ret := map[string]interface{}{}
	for _, f := range m.Data() {
		ret[f.Key] = f.Value
	}
	return ret
}

// Fields returns the record restricted to keys, in that order.
func (m *Message) Fields(keys []string) []Field {
	data := m.Data()
	var ret []Field
	for _, key := range keys {
		for _, f := range data {
			if f.Key == key {
				ret = append(ret, f)
				break
			}
		}
	}
	return ret
}

func (m *Message) String() string {
	var parts []string
	for _, f := range m.Fields(OutputFields) {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	return strings.Join(parts, " ")
}

// MarshalFields encodes fields as a JSON object with keys in the order given,
// as rtl_433 prints its records.
func MarshalFields(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding key %q", f.Key)
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding field %s", f.Key)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the full record in field order.
func (m *Message) MarshalJSON() ([]byte, error) {
	return MarshalFields(m.Data())
}

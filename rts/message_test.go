package rts

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleMessage_Data() {
	m := newMessage(samplePlain, false)
	for _, f := range m.Data() {
		fmt.Printf("%-15s %-15s %v\n", f.Key, f.Label, f.Value)
	}
	// Output:
	// model                           Somfy-RTS
	// id              Id              12825249
	// control         Control         Up (2)
	// counter         Counter         18
	// address         Address         A1B2C3
	// retransmission  Retransmission  FALSE
	// mic             Integrity       CHECKSUM
}

func TestNewMessage(t *testing.T) {
	m := newMessage(samplePlain, true)
	assert.Equal(t, byte(0x5a), m.Seed)
	assert.Equal(t, ControlUp, m.Control)
	assert.Equal(t, byte(0x3), m.Checksum)
	assert.Equal(t, uint16(0x0012), m.Counter)
	assert.Equal(t, [3]byte{0xa1, 0xb2, 0xc3}, m.Address)
	assert.True(t, m.Retransmission)
}

func TestCounterBigEndian(t *testing.T) {
	m := newMessage(Payload{0, 0, 0xab, 0xcd}, false)
	assert.Equal(t, uint16(0xabcd), m.Counter)
}

func TestAddressByteOrder(t *testing.T) {
	m := newMessage(Payload{4: 0x01, 5: 0x02, 6: 0x03}, false)
	assert.Equal(t, "010203", m.AddressHex())
	assert.Equal(t, uint32(0x030201), m.ID())

	// the next channel of the same remote
	next := newMessage(Payload{4: 0x02, 5: 0x02, 6: 0x03}, false)
	assert.Equal(t, m.ID()+1, next.ID())
}

func TestMessageString(t *testing.T) {
	m := newMessage(samplePlain, true)
	assert.Equal(t, "model=Somfy-RTS control=Up (2) counter=18 address=A1B2C3 retransmission=TRUE", m.String())
}

func TestMessageFields(t *testing.T) {
	m := newMessage(samplePlain, false)
	fields := m.Fields([]string{"address", "nonexistent", "model"})
	assert.Equal(t, []Field{{"address", "Address", "A1B2C3"}, {"model", "", Model}}, fields)
}

func TestMessageMapJSON(t *testing.T) {
	m := newMessage(samplePlain, false)
	data, err := json.Marshal(m.Map())
	assert.NoError(t, err)
	assert.JSONEq(t, `{"model":"Somfy-RTS","id":12825249,"control":"Up (2)","counter":18,"address":"A1B2C3","retransmission":"FALSE","mic":"CHECKSUM"}`, string(data))
}

func TestMarshalFieldsKeepsOrder(t *testing.T) {
	m := newMessage(samplePlain, false)
	data, err := MarshalFields(m.Fields(OutputFields))
	assert.NoError(t, err)
	assert.Equal(t, `{"model":"Somfy-RTS","control":"Up (2)","counter":18,"address":"A1B2C3","retransmission":"FALSE"}`, string(data))

	data, err = json.Marshal(m)
	assert.NoError(t, err)
	assert.Equal(t, `{"model":"Somfy-RTS","id":12825249,"control":"Up (2)","counter":18,"address":"A1B2C3","retransmission":"FALSE","mic":"CHECKSUM"}`, string(data))
}

func TestMarshalFieldsEmpty(t *testing.T) {
	data, err := MarshalFields(nil)
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestMarshalFieldsError(t *testing.T) {
	_, err := MarshalFields([]Field{{"model", "", Model}, {"bad", "", make(chan int)}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "encoding field bad")
}

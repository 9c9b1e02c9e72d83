// Package rts decodes Somfy RTS remote control frames from OOK PCM
// demodulated rows.
//
// A frame is a preamble followed by 56 Manchester encoded bits, a rising edge
// being a 1. First frames and retransmissions have different preambles:
//
//	first:   ^^^^^^^^^^^^^^^^___________^^^^____^^^^____^^^^^^^^_
//	repeat:  ^^^^____ (x7) ^^^^^^^^_
//
// each character being roughly 604us. The 7 data bytes are scrambled by XORing
// each with the previous scrambled byte. Descrambled, they are:
//
//	byte 0:    seed for the scrambler
//	byte 1:    control command (high nibble), checksum (low nibble)
//	bytes 2-3: rolling counter, big endian
//	bytes 4-6: channel address
//
// See https://pushstack.wordpress.com/somfy-rts-protocol/
package rts

import (
	"log"

	"github.com/barnybug/gosomfy/bitbuffer"
	"github.com/pkg/errors"
)

// Decoder turns rows into messages. A Decoder has no state beyond its settings
// and may be shared between goroutines.
type Decoder struct {
	// Above 1, log seed and checksum of each decoded message.
	Verbose int
}

// Decode finds, validates and decodes a single message from bb. Failures are
// ErrSanity or ErrIntegrity, wrapped with detail.
func (d *Decoder) Decode(bb *bitbuffer.BitBuffer) (*Message, error) {
	shape, err := Classify(bb)
	if err != nil {
		return nil, err
	}
	if err := LocatePreamble(bb, shape); err != nil {
		return nil, err
	}
	scrambled, err := extractPayload(bb, shape)
	if err != nil {
		return nil, err
	}
	payload := Descramble(scrambled)
	if sum := Checksum(payload); sum != 0 {
		return nil, errors.Wrapf(ErrIntegrity, "checksum folds to 0x%x", sum)
	}

	m := newMessage(payload, shape.Retransmission)
	if d.Verbose > 1 {
		log.Printf("seed=0x%02x, chksum=0x%x", m.Seed, m.Checksum)
	}
	return m, nil
}

// Decode with a default Decoder.
func Decode(bb *bitbuffer.BitBuffer) (*Message, error) {
	d := Decoder{}
	return d.Decode(bb)
}

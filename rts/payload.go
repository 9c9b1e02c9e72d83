package rts

import (
	"github.com/barnybug/gosomfy/bitbuffer"
	"github.com/pkg/errors"
)

const (
	PayloadLen  = 7
	payloadBits = PayloadLen * 8
)

// Payload is the 7 byte message, either as received or descrambled.
type Payload [PayloadLen]byte

// extractPayload Manchester decodes exactly 56 bits from the data start.
func extractPayload(bb *bitbuffer.BitBuffer, shape FrameShape) (Payload, error) {
	var p Payload
	decoded, end := bb.ManchesterDecode(shape.Row, shape.DataStart, payloadBits)
	if decoded.Bits != payloadBits {
		return p, errors.Wrapf(ErrIntegrity, "manchester decoded %d of %d bits (stopped at bit %d)", decoded.Bits, payloadBits, end)
	}
	copy(p[:], decoded.ExtractBytes(0, payloadBits))
	return p, nil
}

// Descramble undoes the transmitter's whitening. Each byte after the first was
// XORed with the previous scrambled byte, so working from the end backwards
// every step still sees its scrambled predecessor.
func Descramble(scrambled Payload) Payload {
	p := scrambled
	for i := PayloadLen - 1; i > 0; i-- {
		p[i] = p[i] ^ p[i-1]
	}
	return p
}

// Checksum XORs all the bytes and folds the result into a nibble. A valid
// message folds to zero.
func Checksum(p Payload) byte {
	var x byte
	for _, b := range p {
		x ^= b
	}
	return (x & 0xf) ^ (x >> 4)
}

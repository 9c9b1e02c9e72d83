package rts

import "github.com/barnybug/gosomfy/bitbuffer"

// scramble whitens a payload the way a remote does before transmitting.
func scramble(p Payload) Payload {
	s := p
	for i := 1; i < PayloadLen; i++ {
		s[i] = p[i] ^ s[i-1]
	}
	return s
}

// withChecksum sets the checksum nibble of p so it validates.
func withChecksum(p Payload) Payload {
	p[1] &= 0xf0
	p[1] |= Checksum(p)
	return p
}

func addBits(bb *bitbuffer.BitBuffer, data []byte, bits int) {
	for i := 0; i < bits; i++ {
		bb.AddBit((data[i/8] >> (7 - uint(i%8))) & 1)
	}
}

// addFrame appends a row holding a full frame carrying plain.
func addFrame(bb *bitbuffer.BitBuffer, retransmission bool, plain Payload) {
	bb.AddRow()
	if retransmission {
		addBits(bb, retransmissionPreamble, 64)
	} else {
		addBits(bb, firstFramePreamble, 24)
	}
	bb.AddBit(0)
	s := scramble(plain)
	for i := 0; i < payloadBits; i++ {
		if (s[i/8]>>(7-uint(i%8)))&1 == 1 {
			bb.AddBit(0)
			bb.AddBit(1)
		} else {
			bb.AddBit(1)
			bb.AddBit(0)
		}
	}
}

// addNoise appends a row of alternating bits.
func addNoise(bb *bitbuffer.BitBuffer, bits int) {
	bb.AddRow()
	for i := 0; i < bits; i++ {
		bb.AddBit(byte(i & 1))
	}
}

var samplePlain = Payload{0x5a, 0x23, 0x00, 0x12, 0xa1, 0xb2, 0xc3}

package rts

import (
	"github.com/barnybug/gosomfy/bitbuffer"
	"github.com/pkg/errors"
)

// Row length bands. A retransmission's preamble is about five times the length
// of a first frame's, so real rows fall cleanly either side of these.
const (
	retransmissionMinBits = 170
	firstFrameMinBits     = 130
)

var (
	firstFramePreamble     = []byte{0xf0, 0xf0, 0xff}
	retransmissionPreamble = []byte{0xf0, 0xf0, 0xf0, 0xf0, 0xf0, 0xf0, 0xf0, 0xff}
)

// FrameShape describes where the data is in the chosen row.
type FrameShape struct {
	Retransmission bool
	Row            int
	DataStart      int
	Preamble       []byte
	PreambleBits   int
}

// Classify picks the first row long enough to be a frame. The long start pulse
// of a first frame often ends up in a row of its own; being short, it is
// skipped.
func Classify(bb *bitbuffer.BitBuffer) (FrameShape, error) {
	for i := 0; i < bb.NumRows(); i++ {
		bits := bb.BitsPerRow(i)
		if bits > retransmissionMinBits {
			return FrameShape{
				Retransmission: true,
				Row:            i,
				DataStart:      65,
				Preamble:       retransmissionPreamble,
				PreambleBits:   64,
			}, nil
		} else if bits > firstFrameMinBits {
			return FrameShape{
				Row:          i,
				DataStart:    25,
				Preamble:     firstFramePreamble,
				PreambleBits: 24,
			}, nil
		}
	}
	return FrameShape{}, errors.Wrapf(ErrSanity, "no row over %d bits in %d rows", firstFrameMinBits, bb.NumRows())
}

// LocatePreamble checks the row starts with the preamble terminator.
func LocatePreamble(bb *bitbuffer.BitBuffer, shape FrameShape) error {
	pos := bb.Search(shape.Row, 0, shape.Preamble, shape.PreambleBits)
	if pos != 0 {
		return errors.Wrapf(ErrSanity, "preamble not at start of row %d (found at %d)", shape.Row, pos)
	}
	return nil
}

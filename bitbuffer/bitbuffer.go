// Package bitbuffer holds rows of demodulated pulses as packed bits, in the
// layout produced by rtl_433's OOK/PCM demodulator, plus the bit-level
// primitives protocol decoders need: pattern search, Manchester decoding and
// byte extraction.
package bitbuffer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Row is a single demodulated row. Bits are packed MSB first.
type Row struct {
	Bits int
	Data []byte
}

// Bit returns the bit at pos, 0 or 1.
func (r Row) Bit(pos int) byte {
	return (r.Data[pos>>3] >> (7 - uint(pos&7))) & 1
}

func (r *Row) addBit(bit byte) {
	if r.Bits>>3 >= len(r.Data) {
		r.Data = append(r.Data, 0)
	}
	if bit != 0 {
		r.Data[r.Bits>>3] |= 0x80 >> uint(r.Bits&7)
	}
	r.Bits++
}

func (r Row) String() string {
	n := (r.Bits + 7) / 8
	return fmt.Sprintf("{%d}%s", r.Bits, hex.EncodeToString(r.Data[:n]))
}

// BitBuffer is an ordered set of rows from one capture.
type BitBuffer struct {
	Rows []Row
}

func New() *BitBuffer {
	return &BitBuffer{}
}

// AddRow starts a new empty row.
func (b *BitBuffer) AddRow() {
	b.Rows = append(b.Rows, Row{})
}

// AddBit appends a bit to the last row, starting one if necessary.
func (b *BitBuffer) AddBit(bit byte) {
	if len(b.Rows) == 0 {
		b.AddRow()
	}
	b.Rows[len(b.Rows)-1].addBit(bit)
}

func (b *BitBuffer) NumRows() int {
	return len(b.Rows)
}

func (b *BitBuffer) BitsPerRow(row int) int {
	return b.Rows[row].Bits
}

func (b *BitBuffer) Bit(row, pos int) byte {
	return b.Rows[row].Bit(pos)
}

// Search looks for the first bits of pattern in row, starting at bit start.
// It returns the bit offset of the match, or -1 if the pattern is absent.
func (b *BitBuffer) Search(row, start int, pattern []byte, bits int) int {
	r := b.Rows[row]
	p := Row{Bits: bits, Data: pattern}
	if bits <= 0 || bits > len(pattern)*8 {
		return -1
	}
	for pos := start; pos+bits <= r.Bits; pos++ {
		i := 0
		for i < bits && r.Bit(pos+i) == p.Bit(i) {
			i++
		}
		if i == bits {
			return pos
		}
	}
	return -1
}

// ManchesterDecode decodes bit pairs of row from start: 01 is a 1 and 10 is a
// 0. Decoding stops at the first pair of equal bits, at the end of the row, or
// after max output bits when max is positive. It returns the decoded bits and
// the source bit offset decoding ended at.
func (b *BitBuffer) ManchesterDecode(row, start, max int) (Row, int) {
	r := b.Rows[row]
	out := Row{}
	end := r.Bits
	if max > 0 && start+max*2 < end {
		end = start + max*2
	}
	pos := start
	for pos+1 < end {
		bit1, bit2 := r.Bit(pos), r.Bit(pos+1)
		if bit1 == bit2 {
			break
		}
		out.addBit(bit2)
		pos += 2
	}
	return out, pos
}

// ExtractBytes copies bits from row starting at pos into a byte slice,
// left aligned.
func (b *BitBuffer) ExtractBytes(row, pos, bits int) []byte {
	return b.Rows[row].ExtractBytes(pos, bits)
}

func (r Row) ExtractBytes(pos, bits int) []byte {
	out := make([]byte, (bits+7)/8)
	for i := 0; i < bits && pos+i < r.Bits; i++ {
		if r.Bit(pos+i) != 0 {
			out[i>>3] |= 0x80 >> uint(i&7)
		}
	}
	return out
}

// String renders the buffer in rtl_433 codes notation, eg. "{24}f0f0ff/{8}ff".
func (b *BitBuffer) String() string {
	var rows []string
	for _, r := range b.Rows {
		rows = append(rows, r.String())
	}
	return strings.Join(rows, "/")
}

func parseRow(code string) (Row, error) {
	bits := -1
	if strings.HasPrefix(code, "{") {
		end := strings.Index(code, "}")
		if end < 0 {
			return Row{}, errors.Errorf("unterminated bit length in %q", code)
		}
		n, err := strconv.Atoi(code[1:end])
		if err != nil || n < 0 {
			return Row{}, errors.Errorf("bad bit length in %q", code)
		}
		bits = n
		code = code[end+1:]
	}
	digits := len(code)
	if digits%2 == 1 {
		code += "0"
	}
	data, err := hex.DecodeString(code)
	if err != nil {
		return Row{}, errors.Wrapf(err, "bad row %q", code)
	}
	if bits < 0 {
		bits = digits * 4
	} else if bits > len(data)*8 {
		return Row{}, errors.Errorf("row %q is shorter than %d bits", code, bits)
	}
	return Row{Bits: bits, Data: data}, nil
}

// Parse reads rows in rtl_433 codes notation. Rows are separated by '/' or
// whitespace; each is hex digits optionally prefixed by the bit length in
// braces. Without a length a row is four bits per hex digit.
func Parse(codes string) (*BitBuffer, error) {
	fields := strings.FieldsFunc(codes, func(r rune) bool {
		return r == '/' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, errors.New("no rows")
	}
	b := New()
	for _, f := range fields {
		row, err := parseRow(f)
		if err != nil {
			return nil, err
		}
		b.Rows = append(b.Rows, row)
	}
	return b, nil
}

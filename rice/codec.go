package rice

import (
	"fmt"

	"github.com/mycophonic/chitin"
	"github.com/mycophonic/chitin/internal/bits"
)

func checkMode(s *Stream, op string, want chitin.Mode) {
	if s.mode != want {
		panic(fmt.Sprintf("chitin/rice: %s called on a stream in %s mode", op, s.mode))
	}
}

// EncodeSymbol codes value through the MTF alphabet: the alphabet index is
// Rice-coded, the entry is promoted halfway to the front while k is below
// promotionKLimit, and the k trend is updated with the index. Best for data with categorical redundancy.
func (m *Model) EncodeSymbol(s *Stream, value uint8) {
	checkMode(s, "EncodeSymbol", chitin.ModeEncode)

	index := 0
	for ; index < alphabetSize; index++ {
		if m.alphabet[index] == value {
			break
		}
	}

	encodeGolomb(s, uint32(index), m.k)

	m.promote(index)
	m.updateK(uint8(index))
}

// DecodeSymbol is the inverse of EncodeSymbol and applies the identical
// model updates.
func (m *Model) DecodeSymbol(s *Stream) uint8 {
	checkMode(s, "DecodeSymbol", chitin.ModeDecode)

	index := decodeGolomb(s, m.k)
	value := m.alphabet[index]

	m.promote(int(index))
	m.updateK(index)

	return value
}

// EncodeLiteral Rice-codes value directly, without the alphabet. Use when
// the caller already knows the value is small.
func (m *Model) EncodeLiteral(s *Stream, value uint8) {
	checkMode(s, "EncodeLiteral", chitin.ModeEncode)

	encodeGolomb(s, uint32(value), m.k)
	m.updateK(value)
}

// DecodeLiteral is the inverse of EncodeLiteral.
func (m *Model) DecodeLiteral(s *Stream) uint8 {
	checkMode(s, "DecodeLiteral", chitin.ModeDecode)

	value := decodeGolomb(s, m.k)
	m.updateK(value)

	return value
}

// EncodeDelta codes a signed offset by zig-zag folding it to a non-negative
// value and Rice-coding the fold.
func (m *Model) EncodeDelta(s *Stream, delta int8) {
	checkMode(s, "EncodeDelta", chitin.ModeEncode)

	folded := bits.EncodeZigZag8(delta)

	encodeGolomb(s, uint32(folded), m.k)
	m.updateK(folded)
}

// DecodeDelta is the inverse of EncodeDelta.
func (m *Model) DecodeDelta(s *Stream) int8 {
	checkMode(s, "DecodeDelta", chitin.ModeDecode)

	folded := decodeGolomb(s, m.k)
	m.updateK(folded)

	return bits.DecodeZigZag8(folded)
}

// EncodeRLE codes value against the recent-values ring. A hit emits a 1-bit
// and the Rice-coded ring index; a miss emits a 0-bit, the raw byte, and
// stores the value in the ring. Best for streams that keep revisiting a
// small working set of values.
func (m *Model) EncodeRLE(s *Stream, value uint8) {
	checkMode(s, "EncodeRLE", chitin.ModeEncode)

	for i := range historySize {
		if m.history[i] == value {
			s.WriteBits(1, 1)
			encodeGolomb(s, uint32(i), m.k)
			m.updateK(uint8(i))

			return
		}
	}

	s.WriteBits(0, 1)
	s.WriteByte(value)

	m.history[m.historyIndex] = value
	m.historyIndex = (m.historyIndex + 1) & (historySize - 1)
}

// DecodeRLE is the inverse of EncodeRLE and applies the identical ring and
// trend updates.
func (m *Model) DecodeRLE(s *Stream) uint8 {
	checkMode(s, "DecodeRLE", chitin.ModeDecode)

	if s.avail < 24 {
		s.refill()
	}

	if s.reservoir&1 == 1 {
		s.reservoir >>= 1
		s.avail--

		// Corrupt input can produce an out-of-range index; stay inside the
		// ring rather than escape it.
		index := decodeGolomb(s, m.k) & (historySize - 1)
		value := m.history[index]
		m.updateK(index)

		return value
	}

	value := uint8(s.reservoir >> 1)

	s.reservoir >>= 9
	s.avail -= 9

	m.history[m.historyIndex] = value
	m.historyIndex = (m.historyIndex + 1) & (historySize - 1)

	return value
}

// Package nibble implements a hot-table entropy coder for byte streams: the
// 14 most frequent values code as a single nibble, repeats of the previous
// value as an RLE nibble, and everything else escapes to a reduced-width
// residual against the cold range. The model is built once from a histogram
// and serialized ahead of the payload.
//
// The wire format packs bits MSB-first at dibit positions {0, 2, 4, 6} of
// each byte: nibbles straddle a byte boundary at position 6, bytes at any
// non-zero position. It shares no bits with the package rice layout.
package nibble

import (
	"fmt"

	"github.com/mycophonic/chitin"
)

// Stream is a coding session over a caller-supplied buffer, packing dibits,
// nibbles and bytes MSB-first. The buffer must be sized by the caller;
// overflowing it on write is a programming error and panics.
type Stream struct {
	buf    []byte
	pos    int
	bitPos uint32 // dibit position within the current byte: 0, 2, 4 or 6
	mode   chitin.Mode
}

// New wraps buf in an idle coding session.
func New(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Mode reports the current session mode.
func (s *Stream) Mode() chitin.Mode {
	return s.mode
}

// Bytes returns the underlying buffer. Only buf[:n] is meaningful after
// EndEncode returned n.
func (s *Stream) Bytes() []byte {
	return s.buf
}

// BeginEncode starts an encoding session at the beginning of the buffer.
func (s *Stream) BeginEncode() {
	s.pos = 0
	s.bitPos = 0
	s.mode = chitin.ModeEncode
}

// EndEncode closes the session and returns the number of bytes used,
// including a trailing partially-filled byte. Unused low bits of the last
// byte are zero.
func (s *Stream) EndEncode() int {
	n := s.pos
	if s.bitPos > 0 {
		n++
	}

	s.mode = chitin.ModeIdle

	return n
}

// BeginDecode starts a decoding session at the beginning of the buffer.
func (s *Stream) BeginDecode() {
	s.pos = 0
	s.bitPos = 0
	s.mode = chitin.ModeDecode
}

// EndDecode returns the stream to idle.
func (s *Stream) EndDecode() {
	s.mode = chitin.ModeIdle
}

// WriteDibit emits a 2-bit value at the current dibit position.
func (s *Stream) WriteDibit(value uint8) {
	if value > 3 {
		panic(fmt.Sprintf("chitin/nibble: WriteDibit called with value %d", value))
	}

	if s.bitPos == 0 {
		// First touch of this byte: assign, clearing stale content.
		s.buf[s.pos] = value << 6
	} else {
		s.buf[s.pos] |= value << (6 - s.bitPos)
	}

	s.bitPos += 2
	if s.bitPos == 8 {
		s.bitPos = 0
		s.pos++
	}
}

// ReadDibit consumes a 2-bit value. Reads past the end of the buffer yield
// zero bits.
func (s *Stream) ReadDibit() uint8 {
	if s.pos >= len(s.buf) {
		return 0
	}

	value := s.buf[s.pos] >> (6 - s.bitPos) & 3

	s.bitPos += 2
	if s.bitPos == 8 {
		s.bitPos = 0
		s.pos++
	}

	return value
}

// WriteNibble emits a 4-bit value, straddling the byte boundary when the
// position is 6.
func (s *Stream) WriteNibble(value uint8) {
	if value > 15 {
		panic(fmt.Sprintf("chitin/nibble: WriteNibble called with value %d", value))
	}

	s.WriteDibit(value >> 2)
	s.WriteDibit(value & 3)
}

// ReadNibble consumes a 4-bit value.
func (s *Stream) ReadNibble() uint8 {
	return s.ReadDibit()<<2 | s.ReadDibit()
}

// WriteByte emits a full byte, straddling the byte boundary at any non-zero
// position.
func (s *Stream) WriteByte(value uint8) {
	s.WriteNibble(value >> 4)
	s.WriteNibble(value & 0xf)
}

// ReadByte consumes a full byte.
func (s *Stream) ReadByte() uint8 {
	return s.ReadNibble()<<4 | s.ReadNibble()
}

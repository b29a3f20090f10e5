package nibble

import (
	"fmt"

	"github.com/mycophonic/chitin"
)

func checkMode(s *Stream, op string, want chitin.Mode) {
	if s.mode != want {
		panic(fmt.Sprintf("chitin/nibble: %s called on a stream in %s mode", op, s.mode))
	}
}

// EncodeByte codes one byte. With compression off the byte passes through
// raw. A repeat of the previous byte emits the RLE nibble without touching
// the anchor. A hot value emits its 4-bit slot index. Anything else emits
// the escape nibble followed by the residual against the cold minimum in the
// model's escape width.
func (m *Model) EncodeByte(s *Stream, value uint8) {
	checkMode(s, "EncodeByte", chitin.ModeEncode)

	if m.noCompression {
		s.WriteByte(value)

		return
	}

	if value == m.lastValue {
		s.WriteNibble(rleNibble)

		return
	}

	m.lastValue = value

	for i := range maxHot {
		if m.hotValues[i] == value {
			s.WriteNibble(uint8(i))

			return
		}
	}

	s.WriteNibble(escapeNibble)

	residual := value - m.coldMin

	switch m.coldNumBits {
	case 2:
		s.WriteDibit(residual)
	case 4:
		s.WriteNibble(residual)
	case 6:
		s.WriteDibit(residual >> 4)
		s.WriteNibble(residual & 0xf)
	case 8:
		s.WriteByte(residual)
	}
}

// DecodeByte is the inverse of EncodeByte. The RLE nibble reuses the anchor
// without rewriting it; every other path stores the decoded byte as the new
// anchor.
func (m *Model) DecodeByte(s *Stream) uint8 {
	checkMode(s, "DecodeByte", chitin.ModeDecode)

	if m.noCompression {
		return s.ReadByte()
	}

	code := s.ReadNibble()

	if code == rleNibble {
		return m.lastValue
	}

	var value uint8

	if code == escapeNibble {
		switch m.coldNumBits {
		case 2:
			value = s.ReadDibit()
		case 4:
			value = s.ReadNibble()
		case 6:
			value = s.ReadDibit()<<4 | s.ReadNibble()
		case 8:
			value = s.ReadByte()
		}

		value += m.coldMin
	} else {
		value = m.hotValues[code]
	}

	m.lastValue = value

	return value
}

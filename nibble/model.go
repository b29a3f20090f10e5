package nibble

const (
	// maxHot is the number of hot-value slots; nibbles 14 and 15 are the RLE
	// and escape markers.
	maxHot       = 14
	rleNibble    = 14
	escapeNibble = 15
)

// Model holds the static coding decisions made from a histogram: the hot
// value table, the cold-range bounds and escape width, and the no-compression
// gate. lastValue is the RLE anchor and is the only field mutated while
// coding.
type Model struct {
	hotValues     [maxHot]uint8
	lastValue     uint8
	noCompression bool
	coldMin       uint8
	coldMax       uint8
	coldNumBits   uint8
}

// NewModel builds a model from a histogram.
//
// Up to 14 distinct symbols with the highest counts become hot values (first
// maximum wins ties). If the hot values cover half the total count or less,
// the model opts out of compression entirely: a hot hit costs 4 bits against
// a 12-bit escape, so below that coverage raw bytes win on average.
// Otherwise the cold range spans the non-hot present symbols and the escape
// residual width is the smallest rung holding it: range >= 64 -> 8 bits,
// >= 16 -> 6, >= 4 -> 4, else 2.
func NewModel(h *Histogram) *Model {
	m := &Model{}

	var selected [maxHot]int
	for i := range selected {
		selected[i] = -1
	}

	hotUsed := 0

	for i := range maxHot {
		maxCount := uint32(0)
		maxIndex := -1

		for sym := range h.numSymbols {
			already := false

			for j := range i {
				if selected[j] == sym {
					already = true

					break
				}
			}

			if already {
				continue
			}

			if h.counts[sym] > maxCount {
				maxCount = h.counts[sym]
				maxIndex = sym
			}
		}

		if maxIndex < 0 || maxCount == 0 {
			break
		}

		m.hotValues[i] = uint8(maxIndex)
		selected[i] = maxIndex
		hotUsed++
	}

	var totalCount, hotCount uint64

	for sym := range h.numSymbols {
		totalCount += uint64(h.counts[sym])
	}

	for i := range hotUsed {
		hotCount += uint64(h.counts[m.hotValues[i]])
	}

	if totalCount > 0 && hotCount*2 <= totalCount {
		m.noCompression = true
	}

	m.coldMin = 255
	m.coldMax = 0

	for sym := range h.numSymbols {
		isHot := false

		for i := range hotUsed {
			if int(m.hotValues[i]) == sym {
				isHot = true

				break
			}
		}

		if isHot || h.counts[sym] == 0 {
			continue
		}

		if uint8(sym) < m.coldMin {
			m.coldMin = uint8(sym)
		}

		if uint8(sym) > m.coldMax {
			m.coldMax = uint8(sym)
		}
	}

	if m.coldMax >= m.coldMin {
		switch coldRange := m.coldMax - m.coldMin; {
		case coldRange >= 64:
			m.coldNumBits = 8
		case coldRange >= 16:
			m.coldNumBits = 6
		case coldRange >= 4:
			m.coldNumBits = 4
		default:
			m.coldNumBits = 2
		}
	}

	return m
}

// NoCompression reports whether the model decided raw bytes beat the hot
// table for the seeding histogram.
func (m *Model) NoCompression() bool {
	return m.noCompression
}

// ColdRange reports the cold-symbol bounds and the escape residual width.
func (m *Model) ColdRange() (coldMin, coldMax, numBits uint8) {
	return m.coldMin, m.coldMax, m.coldNumBits
}

// Save serializes the model ahead of the payload: a dibit no-compression
// flag, then (when compressing) the escape width nibble, the cold minimum
// byte and the 14 hot value bytes.
func (m *Model) Save(s *Stream) {
	flag := uint8(0)
	if m.noCompression {
		flag = 1
	}

	s.WriteDibit(flag)

	if m.noCompression {
		return
	}

	s.WriteNibble(m.coldNumBits)
	s.WriteByte(m.coldMin)

	for _, hot := range m.hotValues {
		s.WriteByte(hot)
	}
}

// Load reads a model serialized by Save and resets the RLE anchor.
func (m *Model) Load(s *Stream) {
	m.noCompression = s.ReadDibit() == 1

	if m.noCompression {
		return
	}

	m.coldNumBits = s.ReadNibble()
	m.coldMin = s.ReadByte()
	m.lastValue = 0

	for i := range m.hotValues {
		m.hotValues[i] = s.ReadByte()
	}
}

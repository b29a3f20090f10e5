package rice

const (
	alphabetSize = 256
	historySize  = 16

	// kTrendThreshold is the hysteresis bound: k only steps after this many
	// net biased observations, which keeps it from oscillating on short runs.
	kTrendThreshold = 12

	// promotionKLimit suppresses MTF promotion at high k, where codeword
	// length is dominated by the remainder and alphabet order matters less.
	promotionKLimit = 6
)

// Model is the adaptive state shared by an encoder and its decoder: a
// Move-To-Front alphabet, the Rice parameter k with its trend counter, and a
// ring of recently seen raw values for RLE coding.
//
// Every coding operation mutates the model. Encoder and decoder must execute
// the identical sequence of operations for their states to track bit-for-bit;
// to decode, start from a model initialized the same way as the encoder's.
type Model struct {
	alphabet     [alphabetSize]uint8
	history      [historySize]uint8
	historyIndex uint8
	k            uint8
	kTrend       int8
}

// NewModel returns a model in its initial state: identity alphabet, identity
// history ring, k = 2.
func NewModel() *Model {
	m := &Model{}
	m.Reset()

	return m
}

// Reset returns the model to its initial state.
func (m *Model) Reset() {
	for i := range alphabetSize {
		m.alphabet[i] = uint8(i)
	}

	for i := range historySize {
		m.history[i] = uint8(i)
	}

	m.k = 2
	m.kTrend = 0
	m.historyIndex = 0
}

// K reports the current Rice parameter.
func (m *Model) K() uint8 {
	return m.k
}

// updateK nudges the trend counter toward the magnitude of the last coded
// value and steps k by one once the trend crosses the hysteresis threshold.
func (m *Model) updateK(value uint8) {
	if uint32(value) < 1<<m.k && m.k > 0 {
		m.kTrend--
	} else if uint32(value) > 3<<m.k && m.k < 7 {
		m.kTrend++
	}

	if m.kTrend > kTrendThreshold {
		m.k++
		m.kTrend = 0
	} else if m.kTrend < -kTrendThreshold {
		m.k--
		m.kTrend = 0
	}
}

// promote moves alphabet[index] halfway toward the front, shifting the
// intervening entries back by one. Halving acts as a low-pass filter on the
// ranking: localized noise cannot oscillate the top of the alphabet.
func (m *Model) promote(index int) {
	if index == 0 || m.k >= promotionKLimit {
		return
	}

	value := m.alphabet[index]
	target := index / 2

	copy(m.alphabet[target+1:index+1], m.alphabet[target:index])
	m.alphabet[target] = value
}

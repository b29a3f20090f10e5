// Package chitin provides compact adaptive entropy coders for short byte
// streams with skewed symbol distributions: a reservoir-based Rice-Golomb
// coder with a Move-To-Front alphabet (package rice) and a hot-table nibble
// coder (package nibble). The two coders share no wire format.
package chitin

// Mode identifies what a coding session is currently doing. A stream starts
// idle, is bracketed by BeginEncode/EndEncode or BeginDecode/EndDecode, and
// returns to idle when the bracket closes.
type Mode uint

// Session modes.
const (
	ModeIdle Mode = iota
	ModeEncode
	ModeDecode
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

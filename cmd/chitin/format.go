package main

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Container framing for packed files. This is CLI glue: the coders
// themselves emit self-delimited bit streams with no magic, length or
// checksum, so the file layer records which codec packed the payload and how
// many bytes to decode.
//
// Layout: 4-byte magic, 1-byte codec tag, uint32 little-endian original
// length, payload.

const headerSize = 9

//nolint:gochecknoglobals // File magic.
var magic = [4]byte{'C', 'H', 'T', 'N'}

var (
	errUnknownCodec    = errors.New("unknown codec")
	errNotChitin       = errors.New("not a chitin container")
	errTruncatedHeader = errors.New("truncated container header")
	errInvalidArgCount = errors.New("expected exactly one argument: file path")
)

// Codec selects which coding operation packs the payload.
type Codec uint8

// Payload codecs.
const (
	CodecSymbol Codec = iota
	CodecRLE
	CodecDelta
	CodecByte
)

func (c Codec) String() string {
	switch c {
	case CodecSymbol:
		return "symbol"
	case CodecRLE:
		return "rle"
	case CodecDelta:
		return "delta"
	case CodecByte:
		return "byte"
	default:
		return "unknown"
	}
}

// ParseCodec maps a command line codec name to its tag.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "symbol":
		return CodecSymbol, nil
	case "rle":
		return CodecRLE, nil
	case "delta":
		return CodecDelta, nil
	case "byte":
		return CodecByte, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, errUnknownCodec)
	}
}

// writeHeader prepends the container header to a packed payload.
func writeHeader(codec Codec, originalLen int, payload []byte) []byte {
	out := make([]byte, headerSize+len(payload))
	copy(out, magic[:])
	out[4] = uint8(codec)
	binary.LittleEndian.PutUint32(out[5:9], uint32(originalLen)) //nolint:gosec // Length is bounded by the input file size.
	copy(out[headerSize:], payload)

	return out
}

// parseHeader splits a packed file into codec, original length and payload.
func parseHeader(data []byte) (Codec, int, []byte, error) {
	if len(data) < headerSize {
		return 0, 0, nil, errTruncatedHeader
	}

	if [4]byte(data[:4]) != magic {
		return 0, 0, nil, errNotChitin
	}

	codec := Codec(data[4])
	if codec > CodecByte {
		return 0, 0, nil, fmt.Errorf("tag %d: %w", data[4], errUnknownCodec)
	}

	originalLen := int(binary.LittleEndian.Uint32(data[5:9]))

	return codec, originalLen, data[headerSize:], nil
}

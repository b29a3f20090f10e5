package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mycophonic/chitin/nibble"
	"github.com/mycophonic/chitin/rice"
)

func unpackCommand() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "Decompress a chitin-packed file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file path (- for stdout)",
			},
			&cli.BoolFlag{
				Name:    "info",
				Aliases: []string{"i"},
				Usage:   "print container info and exit without decoding",
			},
		},
		Action: runUnpack,
	}
}

func runUnpack(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files.
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	codec, originalLen, payload, err := parseHeader(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if cmd.Bool("info") {
		_, _ = fmt.Fprintf(os.Stderr, "codec:    %s\n", codec)
		_, _ = fmt.Fprintf(os.Stderr, "packed:   %d bytes\n", len(payload))
		_, _ = fmt.Fprintf(os.Stderr, "original: %d bytes\n", originalLen)

		return nil
	}

	return writeOutput(cmd.String("output"), unpack(codec, originalLen, payload))
}

// unpack reverses the coding operation recorded in the container header.
func unpack(codec Codec, originalLen int, payload []byte) []byte {
	out := make([]byte, originalLen)

	if codec == CodecByte {
		unpackBytes(out, payload)

		return out
	}

	stream := rice.New(payload)
	model := rice.NewModel()

	stream.BeginDecode()

	switch codec {
	case CodecSymbol:
		for i := range out {
			out[i] = model.DecodeSymbol(stream)
		}
	case CodecRLE:
		for i := range out {
			out[i] = model.DecodeRLE(stream)
		}
	case CodecDelta:
		prev := uint8(0)
		for i := range out {
			if i == 0 {
				prev = model.DecodeLiteral(stream)
			} else {
				prev += uint8(model.DecodeDelta(stream))
			}

			out[i] = prev
		}
	case CodecByte:
	}

	stream.EndDecode()

	return out
}

func unpackBytes(out, payload []byte) {
	stream := nibble.New(payload)
	model := &nibble.Model{}

	stream.BeginDecode()
	model.Load(stream)

	for i := range out {
		out[i] = model.DecodeByte(stream)
	}

	stream.EndDecode()
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mycophonic/chitin/nibble"
	"github.com/mycophonic/chitin/rice"
)

// worstCaseBuffer sizes the coding buffer for any codec: the escape path
// tops out around 25 bits per input byte, so 4x plus model/slack headroom
// always fits.
func worstCaseBuffer(inputLen int) []byte {
	return make([]byte, inputLen*4+64)
}

func packCommand() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Compress a file with one of the entropy coders",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file path (- for stdout)",
			},
			&cli.StringFlag{
				Name:    "codec",
				Aliases: []string{"c"},
				Value:   "symbol",
				Usage:   "coding operation: symbol, rle, delta or byte",
			},
		},
		Action: runPack,
	}
}

func runPack(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files.
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	codec, err := ParseCodec(cmd.String("codec"))
	if err != nil {
		return fmt.Errorf("invalid codec: %w", err)
	}

	payload := pack(codec, data)

	_, _ = fmt.Fprintf(os.Stderr, "codec:  %s\n", codec)
	_, _ = fmt.Fprintf(os.Stderr, "input:  %d bytes\n", len(data))
	_, _ = fmt.Fprintf(os.Stderr, "packed: %d bytes (+%d header)\n", len(payload), headerSize)

	return writeOutput(cmd.String("output"), writeHeader(codec, len(data), payload))
}

// pack runs the selected coding operation over data and returns the payload.
func pack(codec Codec, data []byte) []byte {
	if codec == CodecByte {
		return packBytes(data)
	}

	stream := rice.New(worstCaseBuffer(len(data)))
	model := rice.NewModel()

	stream.BeginEncode()

	switch codec {
	case CodecSymbol:
		for _, b := range data {
			model.EncodeSymbol(stream, b)
		}
	case CodecRLE:
		for _, b := range data {
			model.EncodeRLE(stream, b)
		}
	case CodecDelta:
		// First byte as a literal, then successive differences; the decoder
		// reverses the chain.
		prev := uint8(0)
		for i, b := range data {
			if i == 0 {
				model.EncodeLiteral(stream, b)
			} else {
				model.EncodeDelta(stream, int8(b-prev))
			}

			prev = b
		}
	case CodecByte:
	}

	n := stream.EndEncode()

	return stream.Bytes()[:n]
}

// packBytes runs the hot-table coder: histogram over the input, model saved
// in-stream ahead of the payload.
func packBytes(data []byte) []byte {
	histogram := nibble.NewHistogram(256)
	for _, b := range data {
		histogram.Observe(b)
	}

	model := nibble.NewModel(histogram)
	stream := nibble.New(worstCaseBuffer(len(data)))

	stream.BeginEncode()
	model.Save(stream)

	for _, b := range data {
		model.EncodeByte(stream, b)
	}

	n := stream.EndEncode()

	return stream.Bytes()[:n]
}

func writeOutput(output string, data []byte) error {
	if output == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}

		return nil
	}

	file, err := os.Create(output) //nolint:gosec // CLI tool creates user-specified output files.
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

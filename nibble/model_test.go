package nibble_test

import (
	"bytes"
	"testing"

	"github.com/mycophonic/chitin/nibble"
)

func histogramOf(data []byte) *nibble.Histogram {
	h := nibble.NewHistogram(256)
	for _, b := range data {
		h.Observe(b)
	}

	return h
}

// symbolSequence is 33 bytes: an ascending run of 19 then the first 14 again.
// Values 1-14 appear twice and become the hot table; 15-19 are the cold tail.
func symbolSequence() []byte {
	seq := make([]byte, 0, 33)

	for v := uint8(1); v <= 19; v++ {
		seq = append(seq, v)
	}

	for v := uint8(1); v <= 14; v++ {
		seq = append(seq, v)
	}

	return seq
}

func TestModelClassification(t *testing.T) {
	t.Parallel()

	model := nibble.NewModel(histogramOf(symbolSequence()))

	if model.NoCompression() {
		t.Fatal("hot coverage is 28/33, model must compress")
	}

	coldMin, coldMax, numBits := model.ColdRange()

	if coldMin != 15 || coldMax != 19 {
		t.Fatalf("cold range = [%d, %d], expected [15, 19]", coldMin, coldMax)
	}

	if numBits != 4 {
		t.Fatalf("coldNumBits = %d, expected 4", numBits)
	}
}

func TestNoCompressionGate(t *testing.T) {
	t.Parallel()

	// 40 unique bytes: the 14 hot slots cover 14/40 of the total, well under
	// half, so the model must refuse to compress and pass bytes through raw.
	input := make([]byte, 40)
	for i := range input {
		input[i] = uint8(i + 1)
	}

	model := nibble.NewModel(histogramOf(input))

	if !model.NoCompression() {
		t.Fatal("14/40 hot coverage must disable compression")
	}

	stream := nibble.New(make([]byte, 64))

	stream.BeginEncode()

	for _, b := range input {
		model.EncodeByte(stream, b)
	}

	if n := stream.EndEncode(); n != len(input) {
		t.Fatalf("no-compression output is %d bytes, expected %d", n, len(input))
	}

	stream.BeginDecode()

	for i, want := range input {
		if got := model.DecodeByte(stream); got != want {
			t.Fatalf("byte %d: got %d, expected %d", i, got, want)
		}
	}

	stream.EndDecode()
}

func TestColdWidthLadder(t *testing.T) {
	t.Parallel()

	// Hot symbols 0-13 dominate; two cold symbols span a controlled range.
	cases := []struct {
		name      string
		coldSpan  uint8
		wantWidth uint8
	}{
		{name: "range 0", coldSpan: 0, wantWidth: 2},
		{name: "range 3", coldSpan: 3, wantWidth: 2},
		{name: "range 4", coldSpan: 4, wantWidth: 4},
		{name: "range 15", coldSpan: 15, wantWidth: 4},
		{name: "range 16", coldSpan: 16, wantWidth: 6},
		{name: "range 63", coldSpan: 63, wantWidth: 6},
		{name: "range 64", coldSpan: 64, wantWidth: 8},
		{name: "range 155", coldSpan: 155, wantWidth: 8},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			h := nibble.NewHistogram(256)

			for v := range uint8(14) {
				for range 10 {
					h.Observe(v)
				}
			}

			const coldBase = uint8(100)

			h.Observe(coldBase)

			if c.coldSpan > 0 {
				h.Observe(coldBase + c.coldSpan)
			}

			model := nibble.NewModel(h)

			if model.NoCompression() {
				t.Fatal("hot symbols dominate, model must compress")
			}

			coldMin, coldMax, numBits := model.ColdRange()

			if coldMin != coldBase || coldMax != coldBase+c.coldSpan {
				t.Fatalf("cold range = [%d, %d], expected [%d, %d]", coldMin, coldMax, coldBase, coldBase+c.coldSpan)
			}

			if numBits != c.wantWidth {
				t.Fatalf("coldNumBits = %d, expected %d", numBits, c.wantWidth)
			}
		})
	}
}

func TestHotSelectionTieBreak(t *testing.T) {
	t.Parallel()

	// All counts equal: repeated linear scan keeps the first maximum, so the
	// hot table is the 14 lowest symbols in order.
	h := nibble.NewHistogram(32)
	for v := range uint8(20) {
		h.Observe(v)
	}

	model := nibble.NewModel(h)

	coldMin, coldMax, _ := model.ColdRange()

	if coldMin != 14 || coldMax != 19 {
		t.Fatalf("cold range = [%d, %d], expected [14, 19]", coldMin, coldMax)
	}
}

func TestByteRoundTripWithModelSaveLoad(t *testing.T) {
	t.Parallel()

	// Hot hits and RLE runs, decoded against a model recovered from the
	// stream alone. All six distinct values fit the hot table, so no escape
	// is coded here.
	input := []byte{
		5, 5, 5, 5, 2, 7, 1, 1, 1, 16, 5, 2, 2, 2, 18, 7, 7, 5, 1, 2,
		5, 2, 7, 1, 16, 16, 18, 5, 5, 5,
	}

	encModel := nibble.NewModel(histogramOf(input))
	stream := nibble.New(make([]byte, 128))

	stream.BeginEncode()
	encModel.Save(stream)

	for _, b := range input {
		encModel.EncodeByte(stream, b)
	}

	n := stream.EndEncode()
	if n >= len(input)+17 {
		t.Fatalf("packed %d bytes into %d, expected a gain over raw plus model", len(input), n)
	}

	stream.BeginDecode()

	decModel := &nibble.Model{}
	decModel.Load(stream)

	got := make([]byte, 0, len(input))
	for range input {
		got = append(got, decModel.DecodeByte(stream))
	}

	stream.EndDecode()

	if !bytes.Equal(got, input) {
		t.Fatalf("decoded sequence mismatch:\n got %v\nwant %v", got, input)
	}
}

func TestByteRoundTripAllWidths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		coldSpan uint8
	}{
		{name: "2-bit escape", coldSpan: 2},
		{name: "4-bit escape", coldSpan: 12},
		{name: "6-bit escape", coldSpan: 40},
		{name: "8-bit escape", coldSpan: 150},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			const coldBase = uint8(90)

			// Fourteen dominant values, then cold visitors across the span.
			input := make([]byte, 0, 160)
			for v := range uint8(14) {
				for range 10 {
					input = append(input, v)
				}
			}

			input = append(input, coldBase, coldBase+c.coldSpan/2, coldBase+c.coldSpan)

			encModel := nibble.NewModel(histogramOf(input))

			if encModel.NoCompression() {
				t.Fatal("hot symbols dominate, model must compress")
			}

			stream := nibble.New(make([]byte, 512))

			stream.BeginEncode()
			encModel.Save(stream)

			for _, b := range input {
				encModel.EncodeByte(stream, b)
			}

			stream.EndEncode()
			stream.BeginDecode()

			decModel := &nibble.Model{}
			decModel.Load(stream)

			for i, want := range input {
				if got := decModel.DecodeByte(stream); got != want {
					t.Fatalf("byte %d: got %d, expected %d", i, got, want)
				}
			}

			stream.EndDecode()
		})
	}
}

func TestRLENibbleKeepsAnchor(t *testing.T) {
	t.Parallel()

	// A run of repeats must decode through the RLE nibble alone.
	input := []byte{9, 9, 9, 9, 9, 9, 4, 4, 4, 9}

	encModel := nibble.NewModel(histogramOf(input))
	stream := nibble.New(make([]byte, 64))

	stream.BeginEncode()
	encModel.Save(stream)

	for _, b := range input {
		encModel.EncodeByte(stream, b)
	}

	stream.EndEncode()
	stream.BeginDecode()

	decModel := &nibble.Model{}
	decModel.Load(stream)

	for i, want := range input {
		if got := decModel.DecodeByte(stream); got != want {
			t.Fatalf("byte %d: got %d, expected %d", i, got, want)
		}
	}

	stream.EndDecode()
}

func TestHistogramBoundsPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("NewHistogram(3) did not panic")
		}
	}()

	nibble.NewHistogram(3)
}

package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func int16LEBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func uint16LEBytes(samples []uint16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], s)
	}
	return out
}

func TestDecoderForUnsupported(t *testing.T) {
	if _, err := decoderFor(EncodingUnknown); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding, got %v", err)
	}
}

func TestDecodeFloat32Passthrough(t *testing.T) {
	input := []float32{0, 0.25, -0.25, 1.0, -1.0}
	got := decodeFloat32(nil, float32LEBytes(input))

	if len(got) != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), len(got))
	}
	for i := range input {
		if got[i] != input[i] {
			t.Fatalf("sample %d: expected %f, got %f", i, input[i], got[i])
		}
	}
}

func TestDecodeInt16Extremes(t *testing.T) {
	got := decodeInt16(nil, int16LEBytes([]int16{math.MaxInt16, math.MinInt16, 0}))

	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0] != 1.0 {
		t.Fatalf("max positive: expected 1.0, got %f", got[0])
	}
	if math.Abs(float64(got[1])+1.0) > 1e-3 {
		t.Fatalf("max negative: expected about -1.0, got %f", got[1])
	}
	if got[2] != 0 {
		t.Fatalf("zero: expected 0, got %f", got[2])
	}
}

func TestDecodeUint16Extremes(t *testing.T) {
	got := decodeUint16(nil, uint16LEBytes([]uint16{math.MaxUint16, 0, 1 << 15}))

	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0] != 1.0 {
		t.Fatalf("max: expected 1.0, got %f", got[0])
	}
	if got[1] != -1.0 {
		t.Fatalf("min: expected -1.0, got %f", got[1])
	}
	if math.Abs(float64(got[2])) > 1e-4 {
		t.Fatalf("midpoint: expected about 0, got %f", got[2])
	}
}

func TestDecodeIgnoresTrailingPartialSample(t *testing.T) {
	raw := append(int16LEBytes([]int16{1000}), 0x7f)
	if got := decodeInt16(nil, raw); len(got) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(got))
	}
}

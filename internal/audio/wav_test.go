package audio

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1.0, -1.0, 1.5, -1.5}
	data, err := encodeWAV(samples, 44100, 1)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("expected a valid WAV file")
	}
	if dec.SampleRate != 44100 {
		t.Fatalf("expected sample rate 44100, got %d", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Fatalf("expected 1 channel, got %d", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Fatalf("expected bit depth 16, got %d", dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("expected %d samples back, got %d", len(samples), len(buf.Data))
	}
	for i, s := range samples {
		want := int(math.Round(math.Max(-1, math.Min(1, float64(s))) * math.MaxInt16))
		if buf.Data[i] != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, buf.Data[i])
		}
	}
}

func TestEncodeWAVByteLength(t *testing.T) {
	const headerSize = 44

	samples := make([]float32, 44100)
	data, err := encodeWAV(samples, 44100, 1)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}
	if len(data) != headerSize+2*len(samples) {
		t.Fatalf("expected %d bytes, got %d", headerSize+2*len(samples), len(data))
	}
}

func TestSeekBufferOverwrite(t *testing.T) {
	buf := &seekBuffer{}
	if _, err := buf.Write([]byte("aaaaaa")); err != nil {
		t.Fatal(err)
	}
	if _, err := buf.Seek(2, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := buf.Write([]byte("bb")); err != nil {
		t.Fatal(err)
	}

	if got := string(buf.Bytes()); got != "aabbaa" {
		t.Fatalf("expected %q, got %q", "aabbaa", got)
	}
}

package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavBitDepth = 16

// encodeWAV serializes canonical float samples into an uncompressed 16-bit
// PCM WAV container. Each sample is clamped to [-1, 1] and quantized with
// rounding. Any encoder failure aborts with no partial container; a truncated
// WAV is worse than none.
func encodeWAV(samples []float32, sampleRate, channels int) ([]byte, error) {
	buf := &seekBuffer{}
	enc := wav.NewEncoder(buf, sampleRate, wavBitDepth, channels, 1)

	frames := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: wavBitDepth,
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		frames.Data[i] = int(math.Round(float64(s) * math.MaxInt16))
	}

	if err := enc.Write(frames); err != nil {
		return nil, fmt.Errorf("failed to write WAV samples: %w", err)
	}
	// Close seeks back and patches the header sizes; skipping it leaves the
	// container unreadable.
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return buf.Bytes(), nil
}

// seekBuffer is an in-memory io.WriteSeeker for the WAV encoder, which must
// seek back over already-written header bytes on Close.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.data) {
		if end > cap(b.data) {
			grown := make([]byte, end, end*2)
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = b.pos + int(offset)
	case io.SeekEnd:
		next = len(b.data) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("seek before start of buffer")
	}
	b.pos = next
	return int64(next), nil
}

func (b *seekBuffer) Bytes() []byte {
	return b.data
}

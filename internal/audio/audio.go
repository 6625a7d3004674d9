package audio

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SampleEncoding identifies how a device delivers raw samples on the wire.
type SampleEncoding int

const (
	EncodingUnknown SampleEncoding = iota
	EncodingFloat32
	EncodingInt16
	EncodingUint16
)

func (e SampleEncoding) String() string {
	switch e {
	case EncodingFloat32:
		return "f32"
	case EncodingInt16:
		return "s16"
	case EncodingUint16:
		return "u16"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the encoding by name in listings.
func (e SampleEncoding) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// SampleSize returns the size of one sample in bytes, or 0 for unknown encodings.
func (e SampleEncoding) SampleSize() int {
	switch e {
	case EncodingFloat32:
		return 4
	case EncodingInt16, EncodingUint16:
		return 2
	default:
		return 0
	}
}

// DeviceDescriptor describes one capture device from a single enumeration pass.
// Index is only stable within that pass; ID is the host backend's opaque handle.
type DeviceDescriptor struct {
	Index      int            `json:"index"`
	ID         string         `json:"-"`
	Name       string         `json:"name"`
	Default    bool           `json:"is_default"`
	SampleRate int            `json:"sample_rate,omitempty"`
	Channels   int            `json:"channels,omitempty"`
	Encoding   SampleEncoding `json:"sample_format,omitempty"`
}

// StreamFormat is one format a device reports it can capture with.
type StreamFormat struct {
	SampleRate int
	Channels   int
	Encoding   SampleEncoding
}

func (f StreamFormat) String() string {
	return fmt.Sprintf("%dHz, %d ch, %s", f.SampleRate, f.Channels, f.Encoding)
}

// Level summarizes the signal measured over a short sampling window.
type Level struct {
	RMS    float32 `json:"rms"`
	Peak   float32 `json:"peak"`
	Silent bool    `json:"is_silent"`
}

// Recording is the result of one bounded capture: a finalized 16-bit PCM WAV
// container plus the format it was captured with.
type Recording struct {
	WAV         []byte
	SampleRate  int
	Channels    int
	SampleCount int
	Duration    time.Duration
}

var (
	// ErrNoDefaultDevice is returned when no default input device exists.
	ErrNoDefaultDevice = errors.New("no default input device available")

	// ErrNoAudioCaptured is returned when a full-length capture produced no
	// samples at all, which points at a non-functional device rather than a
	// stream fault.
	ErrNoAudioCaptured = errors.New("no audio data captured")

	// ErrUnsupportedEncoding is returned at stream-open time when the device's
	// native encoding has no normalizer path.
	ErrUnsupportedEncoding = errors.New("unsupported sample encoding")
)

// DeviceNotFoundError is returned when an index selector does not resolve to a
// device in the current enumeration.
type DeviceNotFoundError struct {
	Index int
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("no input device at index %d", e.Index)
}

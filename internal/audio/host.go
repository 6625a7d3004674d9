package audio

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Supported host backends.
const (
	BackendMiniaudio = "miniaudio"
	BackendPortAudio = "portaudio"
)

// Host is the seam between the engine and the platform audio subsystem. A host
// enumerates capture devices and opens raw input streams on them; everything
// above it (normalization, buffering, timing) is backend-agnostic.
type Host interface {
	// InputDevices enumerates capture devices in the backend's native order.
	InputDevices() ([]DeviceDescriptor, error)

	// SupportedFormats reports the formats the device claims to capture with.
	SupportedFormats(dev DeviceDescriptor) ([]StreamFormat, error)

	// OpenStream opens a capture stream on the device. onData receives raw
	// interleaved bytes in the device's native encoding from the backend's
	// realtime context; onError receives at most the asynchronous stream
	// errors observed while the stream runs. The stream is returned stopped.
	OpenStream(dev DeviceDescriptor, onData func([]byte), onError func(error)) (Stream, error)

	// Close releases the backend context.
	Close() error
}

// Stream is one open capture stream.
type Stream interface {
	Start() error

	// Stop halts the callbacks and releases the device handle. It is
	// idempotent; the controller relies on that to guarantee release on
	// every exit path.
	Stop()
}

func newHost(backend string, log zerolog.Logger) (Host, error) {
	switch backend {
	case "", BackendMiniaudio:
		return newMalgoHost(log)
	case BackendPortAudio:
		return newPortAudioHost()
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}

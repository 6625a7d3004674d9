package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"micprobe/internal/config"
)

// Capture durations are clamped, not rejected; out-of-range requests silently
// land on the nearest bound.
const (
	minCaptureDuration = time.Second
	maxCaptureDuration = 30 * time.Second
	minLevelDuration   = 10 * time.Millisecond
	maxLevelDuration   = time.Second
)

// silenceThreshold is the RMS level below which a reading counts as silence.
const silenceThreshold = 0.01

// Engine runs bounded capture sessions against one host backend.
type Engine struct {
	host Host
	log  zerolog.Logger

	// sleep is the controller's single blocking wait; tests replace it.
	sleep func(time.Duration)
}

// New creates an engine on the backend named in cfg.
func New(cfg config.AudioConfig, log zerolog.Logger) (*Engine, error) {
	host, err := newHost(cfg.Backend, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio host: %w", err)
	}

	log.Debug().Str("backend", cfg.Backend).Msg("Audio host initialized")

	return &Engine{
		host:  host,
		log:   log,
		sleep: time.Sleep,
	}, nil
}

// Close releases the host context.
func (e *Engine) Close() error {
	return e.host.Close()
}

// ListDevices enumerates capture devices. Enumeration trouble is demoted to a
// warning and an empty listing, so the caller can render "no microphones
// found" instead of an error page.
func (e *Engine) ListDevices() []DeviceDescriptor {
	devices, err := e.host.InputDevices()
	if err != nil {
		e.log.Warn().Err(err).Msg("Failed to enumerate input devices")
		return nil
	}
	return devices
}

// Resolve maps a selector onto a device from a fresh enumeration pass. A nil
// selector means the platform default input device. Indices are only valid
// against the enumeration performed here, never cached across calls.
func (e *Engine) Resolve(selector *int) (DeviceDescriptor, error) {
	devices, err := e.host.InputDevices()
	if err != nil {
		return DeviceDescriptor{}, fmt.Errorf("failed to enumerate input devices: %w", err)
	}

	if selector == nil {
		for _, dev := range devices {
			if dev.Default {
				return dev, nil
			}
		}
		return DeviceDescriptor{}, ErrNoDefaultDevice
	}

	if *selector < 0 || *selector >= len(devices) {
		return DeviceDescriptor{}, &DeviceNotFoundError{Index: *selector}
	}
	return devices[*selector], nil
}

// DeviceInfo resolves a device and reports the formats it claims to support.
// A format query failure is not fatal; the descriptor alone is still useful.
func (e *Engine) DeviceInfo(selector *int) (DeviceDescriptor, []StreamFormat, error) {
	dev, err := e.Resolve(selector)
	if err != nil {
		return DeviceDescriptor{}, nil, err
	}

	formats, err := e.host.SupportedFormats(dev)
	if err != nil {
		e.log.Warn().Err(err).Str("device", dev.Name).Msg("Failed to query supported formats")
		formats = nil
	}
	return dev, formats, nil
}

// Capture records from the selected device for the clamped duration and
// encodes the result as a 16-bit PCM WAV container. A session that captured
// nothing over the full window fails with ErrNoAudioCaptured.
func (e *Engine) Capture(selector *int, duration time.Duration) (*Recording, error) {
	duration = clampDuration(duration, minCaptureDuration, maxCaptureDuration)

	dev, err := e.Resolve(selector)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("device", dev.Name).
		Dur("duration", duration).
		Int("sample_rate", dev.SampleRate).
		Int("channels", dev.Channels).
		Msg("Starting audio capture")

	samples, err := e.record(dev, duration)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoAudioCaptured
	}

	wavData, err := encodeWAV(samples, dev.SampleRate, dev.Channels)
	if err != nil {
		return nil, err
	}

	e.log.Info().Int("samples", len(samples)).Int("bytes", len(wavData)).Msg("Audio capture finished")

	return &Recording{
		WAV:         wavData,
		SampleRate:  dev.SampleRate,
		Channels:    dev.Channels,
		SampleCount: len(samples),
		Duration:    duration,
	}, nil
}

// InputLevel samples the selected device over a short clamped window and
// reduces the buffer to RMS and peak statistics. An empty buffer is a valid
// silent reading here, not an error: very short windows legitimately contain
// nothing.
func (e *Engine) InputLevel(selector *int, duration time.Duration) (Level, error) {
	duration = clampDuration(duration, minLevelDuration, maxLevelDuration)

	dev, err := e.Resolve(selector)
	if err != nil {
		return Level{}, err
	}

	samples, err := e.record(dev, duration)
	if err != nil {
		return Level{}, err
	}

	return measureLevel(samples), nil
}

// record runs one session through its whole life: open the stream, block for
// the duration, stop, then drain. There is no early exit and no polling; the
// sleep is the only suspension point. The deferred Stop covers panics and
// keeps the release guarantee on every path.
func (e *Engine) record(dev DeviceDescriptor, duration time.Duration) ([]float32, error) {
	stream, sess, err := e.openStream(dev)
	if err != nil {
		return nil, err
	}
	defer stream.Stop()

	e.sleep(duration)
	stream.Stop()

	return sess.drain()
}

func measureLevel(samples []float32) Level {
	if len(samples) == 0 {
		return Level{Silent: true}
	}

	var sumSquares float64
	var peak float32
	for _, s := range samples {
		sumSquares += float64(s) * float64(s)
		if abs := float32(math.Abs(float64(s))); abs > peak {
			peak = abs
		}
	}
	rms := float32(math.Sqrt(sumSquares / float64(len(samples))))

	return Level{RMS: rms, Peak: peak, Silent: rms < silenceThreshold}
}

func clampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

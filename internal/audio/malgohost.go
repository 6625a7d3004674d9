//go:build cgo

package audio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
)

// periodSizeMS is the capture callback period in milliseconds.
const periodSizeMS = 20

// malgoHost drives the platform audio subsystem through miniaudio.
type malgoHost struct {
	ctx *malgo.AllocatedContext
	log zerolog.Logger
}

func newMalgoHost(log zerolog.Logger) (*malgoHost, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug().Str("backend", BackendMiniaudio).Msg(strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize miniaudio context: %w", err)
	}
	return &malgoHost{ctx: ctx, log: log}, nil
}

func (h *malgoHost) Close() error {
	if err := h.ctx.Uninit(); err != nil {
		return err
	}
	h.ctx.Free()
	return nil
}

func (h *malgoHost) InputDevices() ([]DeviceDescriptor, error) {
	infos, err := h.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, err
	}

	devices := make([]DeviceDescriptor, 0, len(infos))
	for _, info := range infos {
		full, err := h.ctx.DeviceInfo(malgo.Capture, info.ID, malgo.Shared)
		if err != nil {
			h.log.Warn().Err(err).Msg("Unable to get audio device info")
			full = info
		}

		idx := len(devices)
		name := full.Name()
		if name == "" {
			name = fmt.Sprintf("Unknown Device %d", idx)
		}

		desc := DeviceDescriptor{
			Index:   idx,
			ID:      string(append([]byte(nil), full.ID[:]...)),
			Name:    name,
			Default: full.IsDefault == 1,
		}
		if f, ok := nativeDataFormat(full); ok {
			desc.SampleRate = int(f.SampleRate)
			desc.Channels = int(f.Channels)
			desc.Encoding = encodingFromMalgo(f.Format)
		}
		devices = append(devices, desc)
	}
	return devices, nil
}

func (h *malgoHost) SupportedFormats(dev DeviceDescriptor) ([]StreamFormat, error) {
	full, err := h.ctx.DeviceInfo(malgo.Capture, toMalgoDeviceID(dev.ID), malgo.Shared)
	if err != nil {
		return nil, err
	}

	formats := make([]StreamFormat, 0, full.FormatCount)
	for _, f := range full.Formats[:full.FormatCount] {
		formats = append(formats, StreamFormat{
			SampleRate: int(f.SampleRate),
			Channels:   int(f.Channels),
			Encoding:   encodingFromMalgo(f.Format),
		})
	}
	return formats, nil
}

func (h *malgoHost) OpenStream(dev DeviceDescriptor, onData func([]byte), onError func(error)) (Stream, error) {
	format, err := malgoFormat(dev.Encoding)
	if err != nil {
		return nil, err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.SampleRate = uint32(dev.SampleRate)
	cfg.PeriodSizeInMilliseconds = periodSizeMS
	cfg.Capture.Format = format
	cfg.Capture.Channels = uint32(dev.Channels)
	cfg.Alsa.NoMMap = 1
	if id := toMalgoDeviceID(dev.ID); id != (malgo.DeviceID{}) {
		cfg.Capture.DeviceID = id.Pointer()
	}

	stream := &malgoStream{}
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			if len(input) == 0 {
				return
			}
			// input is only valid for the duration of the callback;
			// the session decodes it before returning.
			onData(input)
		},
		Stop: func() {
			// A stop we did not request means the device went away
			// mid-capture.
			if stream.closing.Load() {
				return
			}
			onError(errors.New("input device stopped unexpectedly"))
		},
	}

	device, err := malgo.InitDevice(h.ctx.Context, cfg, callbacks)
	if err != nil {
		return nil, err
	}
	stream.dev = device
	return stream, nil
}

type malgoStream struct {
	dev     *malgo.Device
	closing atomic.Bool
	once    sync.Once
}

func (s *malgoStream) Start() error {
	return s.dev.Start()
}

func (s *malgoStream) Stop() {
	s.once.Do(func() {
		s.closing.Store(true)
		_ = s.dev.Stop()
		s.dev.Uninit()
	})
}

// nativeDataFormat returns the first format the device reports, which
// miniaudio orders by preference.
func nativeDataFormat(info malgo.DeviceInfo) (malgo.DataFormat, bool) {
	if info.FormatCount == 0 {
		return malgo.DataFormat{}, false
	}
	return info.Formats[0], true
}

func toMalgoDeviceID(id string) malgo.DeviceID {
	var res malgo.DeviceID
	copy(res[:], id)
	return res
}

func encodingFromMalgo(f malgo.FormatType) SampleEncoding {
	switch f {
	case malgo.FormatF32:
		return EncodingFloat32
	case malgo.FormatS16:
		return EncodingInt16
	default:
		return EncodingUnknown
	}
}

func malgoFormat(enc SampleEncoding) (malgo.FormatType, error) {
	switch enc {
	case EncodingFloat32:
		return malgo.FormatF32, nil
	case EncodingInt16:
		return malgo.FormatS16, nil
	default:
		return malgo.FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
}

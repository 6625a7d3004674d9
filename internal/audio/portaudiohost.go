//go:build cgo

package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 512

// portAudioHost is the PortAudio-backed host. PortAudio converts device
// samples to float32 natively, so every descriptor it hands out reports
// EncodingFloat32; it also has no asynchronous error callback, which leaves
// the session error slot empty on this backend.
type portAudioHost struct{}

func newPortAudioHost() (*portAudioHost, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioHost{}, nil
}

func (h *portAudioHost) Close() error {
	return portaudio.Terminate()
}

func (h *portAudioHost) InputDevices() ([]DeviceDescriptor, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	defaultDevice, _ := portaudio.DefaultInputDevice()

	devices := make([]DeviceDescriptor, 0, len(infos))
	for _, info := range infos {
		if info.MaxInputChannels <= 0 {
			continue
		}
		devices = append(devices, DeviceDescriptor{
			Index:      len(devices),
			ID:         info.Name,
			Name:       info.Name,
			Default:    info == defaultDevice,
			SampleRate: int(info.DefaultSampleRate),
			Channels:   info.MaxInputChannels,
			Encoding:   EncodingFloat32,
		})
	}
	return devices, nil
}

func (h *portAudioHost) SupportedFormats(dev DeviceDescriptor) ([]StreamFormat, error) {
	// PortAudio only reports a default configuration per device.
	return []StreamFormat{{
		SampleRate: dev.SampleRate,
		Channels:   dev.Channels,
		Encoding:   EncodingFloat32,
	}}, nil
}

func (h *portAudioHost) OpenStream(dev DeviceDescriptor, onData func([]byte), onError func(error)) (Stream, error) {
	info, err := h.findDevice(dev.ID)
	if err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: dev.Channels,
			Latency:  info.DefaultLowInputLatency,
		},
		SampleRate:      float64(dev.SampleRate),
		FramesPerBuffer: framesPerBuffer,
	}, func(in []float32) {
		onData(float32LEBytes(in))
	})
	if err != nil {
		return nil, err
	}

	return &portAudioStream{stream: stream}, nil
}

func (h *portAudioHost) findDevice(id string) (*portaudio.DeviceInfo, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Name == id && info.MaxInputChannels > 0 {
			return info, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", id)
}

type portAudioStream struct {
	stream *portaudio.Stream
	once   sync.Once
}

func (s *portAudioStream) Start() error {
	return s.stream.Start()
}

func (s *portAudioStream) Stop() {
	s.once.Do(func() {
		_ = s.stream.Stop()
		s.stream.Close()
	})
}

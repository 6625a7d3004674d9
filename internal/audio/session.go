package audio

import (
	"fmt"
	"sync"
)

// session is the only state shared between the controller and the backend's
// realtime callback: an append-only sample buffer and a single-slot error
// holder, both behind one short-held mutex. The callback appends; the
// controller drains strictly after the stream has been stopped.
type session struct {
	mu      sync.Mutex
	samples []float32
	err     error
}

func (s *session) append(dec decodeFunc, raw []byte) {
	s.mu.Lock()
	s.samples = dec(s.samples, raw)
	s.mu.Unlock()
}

// setErr records an asynchronous stream error. The first error is the root
// cause; later ones are dropped.
func (s *session) setErr(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// drain consumes the session into its final buffer. A recorded stream error
// always wins over the buffer: audio truncated by a mid-capture fault must
// not be returned as if it were clean.
func (s *session) drain() ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, fmt.Errorf("stream error: %w", s.err)
	}
	samples := s.samples
	s.samples = nil
	return samples, nil
}

// openStream builds and starts a capture stream wired to a fresh session. The
// normalizer path is selected here, once, from the device's native encoding.
func (e *Engine) openStream(dev DeviceDescriptor) (Stream, *session, error) {
	dec, err := decoderFor(dev.Encoding)
	if err != nil {
		return nil, nil, err
	}

	sess := &session{}
	stream, err := e.host.OpenStream(dev,
		func(raw []byte) { sess.append(dec, raw) },
		sess.setErr,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Stop()
		return nil, nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	return stream, sess, nil
}

//go:build !cgo

package audio

import "errors"

// The PortAudio bindings require cgo; without it the backend is unavailable.
func newPortAudioHost() (Host, error) {
	return nil, errors.New("portaudio backend unavailable: built without cgo")
}

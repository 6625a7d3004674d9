//go:build !cgo

package audio

import (
	"errors"

	"github.com/rs/zerolog"
)

// The miniaudio bindings require cgo; without it the backend is unavailable.
func newMalgoHost(log zerolog.Logger) (Host, error) {
	return nil, errors.New("miniaudio backend unavailable: built without cgo")
}

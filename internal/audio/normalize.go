package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// decodeFunc converts one callback's worth of raw device bytes into canonical
// float32 samples in [-1, 1], appending them to dst.
type decodeFunc func(dst []float32, raw []byte) []float32

// decoderFor picks the normalizer path for an encoding. The choice is made
// once at stream-open time so the per-sample path stays branch-light.
func decoderFor(enc SampleEncoding) (decodeFunc, error) {
	switch enc {
	case EncodingFloat32:
		return decodeFloat32, nil
	case EncodingInt16:
		return decodeInt16, nil
	case EncodingUint16:
		return decodeUint16, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
}

// Float32 sources are assumed already normalized; samples pass through as-is.
func decodeFloat32(dst []float32, raw []byte) []float32 {
	for i := 0; i+4 <= len(raw); i += 4 {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(raw[i:])))
	}
	return dst
}

func decodeInt16(dst []float32, raw []byte) []float32 {
	for i := 0; i+2 <= len(raw); i += 2 {
		s := int16(binary.LittleEndian.Uint16(raw[i:]))
		dst = append(dst, float32(s)/float32(math.MaxInt16))
	}
	return dst
}

// Unsigned samples sit in [0, 65535] with silence at the midpoint; map the
// full range onto [-1, 1].
func decodeUint16(dst []float32, raw []byte) []float32 {
	for i := 0; i+2 <= len(raw); i += 2 {
		u := binary.LittleEndian.Uint16(raw[i:])
		dst = append(dst, float32(u)/float32(math.MaxUint16)*2.0-1.0)
	}
	return dst
}

package audio

import (
	"encoding/binary"
	"math"
)

// float32LEBytes reencodes a callback buffer as little-endian bytes, the raw
// form the host contract delivers.
func float32LEBytes(in []float32) []byte {
	out := make([]byte, len(in)*4)
	for i, s := range in {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

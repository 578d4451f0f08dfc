// Package iq reads and writes interleaved complex baseband sample
// files in the two formats common to SDR tooling: cf32 (little-endian
// float32 I/Q pairs) and cs16 (little-endian int16 pairs, full scale
// at 32767).
package iq

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Format identifies a sample file layout.
type Format int

const (
	CF32 Format = iota
	CS16
)

const cs16Scale = 32767

// ParseFormat converts a textual format name ("cf32", "cs16").
func ParseFormat(s string) (Format, error) {
	switch s {
	case "cf32":
		return CF32, nil
	case "cs16":
		return CS16, nil
	}
	return 0, fmt.Errorf("iq: unknown sample format %q", s)
}

func (f Format) String() string {
	if f == CS16 {
		return "cs16"
	}
	return "cf32"
}

// Read decodes all samples from r in the given format.
func Read(r io.Reader, f Format) ([]complex128, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("iq: %w", err)
	}
	switch f {
	case CS16:
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("iq: %d bytes is not a whole number of cs16 samples", len(data))
		}
		out := make([]complex128, len(data)/4)
		for i := range out {
			re := int16(binary.LittleEndian.Uint16(data[4*i:]))
			im := int16(binary.LittleEndian.Uint16(data[4*i+2:]))
			out[i] = complex(float64(re)/cs16Scale, float64(im)/cs16Scale)
		}
		return out, nil
	default:
		if len(data)%8 != 0 {
			return nil, fmt.Errorf("iq: %d bytes is not a whole number of cf32 samples", len(data))
		}
		out := make([]complex128, len(data)/8)
		for i := range out {
			re := math.Float32frombits(binary.LittleEndian.Uint32(data[8*i:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(data[8*i+4:]))
			out[i] = complex(float64(re), float64(im))
		}
		return out, nil
	}
}

// Write encodes samples to w in the given format. cs16 output clamps
// to full scale.
func Write(w io.Writer, f Format, samples []complex128) error {
	var buf []byte
	switch f {
	case CS16:
		buf = make([]byte, 4*len(samples))
		for i, v := range samples {
			binary.LittleEndian.PutUint16(buf[4*i:], uint16(clamp16(real(v))))
			binary.LittleEndian.PutUint16(buf[4*i+2:], uint16(clamp16(imag(v))))
		}
	default:
		buf = make([]byte, 8*len(samples))
		for i, v := range samples {
			binary.LittleEndian.PutUint32(buf[8*i:], math.Float32bits(float32(real(v))))
			binary.LittleEndian.PutUint32(buf[8*i+4:], math.Float32bits(float32(imag(v))))
		}
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("iq: %w", err)
	}
	return nil
}

func clamp16(x float64) int16 {
	v := math.Round(x * cs16Scale)
	if v > cs16Scale {
		v = cs16Scale
	}
	if v < -cs16Scale - 1 {
		v = -cs16Scale - 1
	}
	return int16(v)
}

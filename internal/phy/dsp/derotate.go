package dsp

import (
	"math"
	"math/cmplx"
)

// derotator multiplies a stream by e^{j(phase + 2*pi*f*n/fs)} with
// phase continuity across Apply calls. The accumulated phase is kept in
// radians and rewrapped to hold precision over long streams.
type derotator struct {
	fs    float64
	step  float64 // radians per sample
	phase float64
}

func (d *derotator) Retune(freqHz, phase float64) {
	d.step = 2 * math.Pi * freqHz / d.fs
	d.phase = phase
}

func (d *derotator) Apply(dst, src []complex128) {
	for i, v := range src {
		dst[i] = v * cmplx.Exp(complex(0, d.phase))
		d.phase += d.step
	}
	d.phase = math.Mod(d.phase, 2*math.Pi)
}

func (d *derotator) Reset() {
	d.step = 0
	d.phase = 0
}

package dsp

import "math"

// agcAlpha is the exponential smoothing weight of the power tracker.
const agcAlpha = 0.5

// agc normalizes chunks to unit mean power, smoothing the power
// estimate across chunks so a noise spike cannot whip the gain.
type agc struct {
	avg    float64
	primed bool
}

func (a *agc) Apply(dst, src []complex128) {
	var power float64
	for _, v := range src {
		power += real(v)*real(v) + imag(v)*imag(v)
	}
	power /= float64(len(src))
	if !a.primed {
		a.avg = power
		a.primed = true
	} else {
		a.avg = (1-agcAlpha)*a.avg + agcAlpha*power
	}

	gain := complex(1, 0)
	if a.avg > 0 {
		gain = complex(1/math.Sqrt(a.avg), 0)
	}
	for i, v := range src {
		dst[i] = v * gain
	}
}

func (a *agc) Reset() {
	a.avg = 0
	a.primed = false
}

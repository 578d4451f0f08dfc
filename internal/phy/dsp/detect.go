package dsp

import "math/cmplx"

// Detection parameters. The short training field repeats every 16
// samples; the detector correlates a 32-sample span against itself at
// that lag and declares a packet when the normalized metric holds above
// threshold for a full period.
const (
	stfPeriod       = 16
	detectSpan      = 32
	detectThreshold = 0.75
	detectRun       = 16
)

// DetectPacket searches window for the short-training periodicity and
// returns the offset of the first sample of a sustained run. Noise
// rarely sustains the metric for a full period, so isolated spikes are
// rejected.
func (fe *FrontEnd) DetectPacket(window []complex128) (int, bool) {
	limit := len(window) - detectSpan - stfPeriod
	run := 0
	for n := 0; n <= limit; n++ {
		var corr complex128
		var energy float64
		for i := 0; i < detectSpan; i++ {
			corr += window[n+i] * cmplx.Conj(window[n+i+stfPeriod])
			energy += real(window[n+i+stfPeriod])*real(window[n+i+stfPeriod]) +
				imag(window[n+i+stfPeriod])*imag(window[n+i+stfPeriod])
		}
		if energy > 0 && cmplx.Abs(corr)/energy >= detectThreshold {
			run++
			if run == detectRun {
				return n - detectRun + 1, true
			}
		} else {
			run = 0
		}
	}
	return 0, false
}

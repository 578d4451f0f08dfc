package dsp

import (
	"math"
	"math/cmplx"

	"github.com/softradio/nonht/internal/phy"
)

// lagCorrelation sums x[n] * conj(x[n+lag]) over the span where both
// samples exist.
func lagCorrelation(x []complex128, lag int) complex128 {
	var c complex128
	for n := 0; n+lag < len(x); n++ {
		c += x[n] * cmplx.Conj(x[n+lag])
	}
	return c
}

// cfoFromCorrelation converts a lag autocorrelation into a frequency
// offset estimate in Hz. A positive offset rotates the later sample
// forward, so the correlation angle carries the negated offset.
func cfoFromCorrelation(c complex128, lag int, fs float64) float64 {
	return -cmplx.Phase(c) * fs / (2 * math.Pi * float64(lag))
}

// EstimateCoarseCFO estimates the carrier frequency offset from the
// 16-sample periodicity of the short training samples in window. The
// estimate is unambiguous up to half the repetition rate.
func (fe *FrontEnd) EstimateCoarseCFO(window []complex128) float64 {
	return cfoFromCorrelation(lagCorrelation(window, stfPeriod), stfPeriod, fe.bw.SampleRate())
}

// EstimateFineCFO estimates the residual frequency offset from the two
// repeated long training symbols of an extracted training field. The
// longer lag narrows the unambiguous range and sharpens the estimate.
func (fe *FrontEnd) EstimateFineCFO(field []complex128) float64 {
	guard := 2 * phy.CyclicPrefix
	c := lagCorrelation(field[guard:guard+2*phy.FFTLength], phy.FFTLength)
	return cfoFromCorrelation(c, phy.FFTLength, fe.bw.SampleRate())
}

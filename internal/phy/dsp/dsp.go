// Package dsp implements the numeric operators behind the phy.FrontEnd
// interface for the legacy OFDM PHY: preamble detection, frequency and
// timing estimation, training-field demodulation, header recovery and
// format classification, plus the payload decode chain (demapping,
// deinterleaving, Viterbi decoding, descrambling) and the modulation
// primitives the waveform generator composes.
package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/softradio/nonht/internal/phy"
)

// FrontEnd is the reference phy.FrontEnd implementation. It is bound to
// one bandwidth class and owns a single FFT plan; it is not safe for
// concurrent use.
type FrontEnd struct {
	bw   phy.Bandwidth
	fft  *fourier.CmplxFFT
	bins []complex128
	ltf  []complex128 // cached timing reference
}

var _ phy.FrontEnd = (*FrontEnd)(nil)

// New builds a front end for the given bandwidth class.
func New(bw phy.Bandwidth) *FrontEnd {
	return &FrontEnd{
		bw:   bw,
		fft:  fourier.NewCmplxFFT(phy.FFTLength),
		bins: make([]complex128, phy.FFTLength),
	}
}

// NewAGC returns a fresh gain controller.
func (fe *FrontEnd) NewAGC() phy.GainController { return &agc{} }

// NewDerotator returns a fresh phase-continuous derotator.
func (fe *FrontEnd) NewDerotator() phy.Derotator {
	return &derotator{fs: fe.bw.SampleRate()}
}

// NewDelayLine returns a fresh symbol realignment delay line.
func (fe *FrontEnd) NewDelayLine() phy.DelayLine { return &delayLine{} }

// demodSymbol demodulates one cyclic-prefixed symbol into its occupied
// subcarrier values. offset selects the sampling point as a fraction of
// the cyclic prefix; sampling early stays inside the prefix, and the
// resulting circular shift is undone by a per-subcarrier phase ramp.
func (fe *FrontEnd) demodSymbol(sym []complex128, offset float64) []complex128 {
	delta := int(math.Round(offset * phy.CyclicPrefix))
	if delta < 0 {
		delta = 0
	}
	if delta > phy.CyclicPrefix {
		delta = phy.CyclicPrefix
	}
	coef := fe.fft.Coefficients(fe.bins, sym[delta:delta+phy.FFTLength])

	out := make([]complex128, numOccupied)
	shift := float64(phy.CyclicPrefix - delta)
	for i, k := range occupiedSubcarriers {
		rot := cmplx.Exp(complex(0, 2*math.Pi*float64(k)*shift/phy.FFTLength))
		out[i] = coef[binFor(k)] * rot
	}
	return out
}

package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/softradio/nonht/internal/phy"
)

// trainingBlock synthesizes the 64-sample time-domain block for a
// k = -26..26 frequency sequence (DC included), unit mean power.
func trainingBlock(seq []complex128) []complex128 {
	fft := fourier.NewCmplxFFT(phy.FFTLength)
	bins := make([]complex128, phy.FFTLength)
	for i, v := range seq {
		k := i - 26
		if k == 0 {
			continue
		}
		bins[binFor(k)] = v
	}
	out := make([]complex128, phy.FFTLength)
	fft.Sequence(out, bins)
	scale := complex(1/math.Sqrt(numOccupied), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// LSTF returns the 160-sample short training field: ten repetitions of
// the 16-sample period.
func LSTF() []complex128 {
	block := trainingBlock(shortTraining[:])
	out := make([]complex128, 2*phy.CyclicPrefix+2*phy.FFTLength)
	for n := range out {
		out[n] = block[n%phy.FFTLength]
	}
	return out
}

// LLTF returns the 160-sample long training field: a 32-sample guard
// followed by two repetitions of the 64-sample training block.
func LLTF() []complex128 {
	block := trainingBlock(complexLongTraining())
	out := make([]complex128, 2*phy.CyclicPrefix+2*phy.FFTLength)
	for n := range out {
		out[n] = block[(n+2*phy.CyclicPrefix)%phy.FFTLength]
	}
	return out
}

func complexLongTraining() []complex128 {
	seq := make([]complex128, len(longTraining))
	for i, v := range longTraining {
		seq[i] = complex(v, 0)
	}
	return seq
}

package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/softradio/nonht/internal/phy"
)

// Modulator assembles cyclic-prefixed OFDM symbols from data
// subcarrier values. It is the transmit-side counterpart of the front
// end's demodulator and shares its subcarrier plan and scaling, so a
// generated symbol demodulates back to its inputs exactly.
type Modulator struct {
	fft  *fourier.CmplxFFT
	bins []complex128
}

func NewModulator() *Modulator {
	return &Modulator{
		fft:  fourier.NewCmplxFFT(phy.FFTLength),
		bins: make([]complex128, phy.FFTLength),
	}
}

// Symbol builds one 80-sample symbol carrying 48 data subcarrier
// values and the four pilots at the given polarity.
func (m *Modulator) Symbol(data []complex128, polarity float64) []complex128 {
	for i := range m.bins {
		m.bins[i] = 0
	}
	for i, di := range dataIdx {
		m.bins[binFor(occupiedSubcarriers[di])] = data[i]
	}
	for i, pi := range pilotIdx {
		m.bins[binFor(occupiedSubcarriers[pi])] = pilotPattern[i] * complex(polarity, 0)
	}

	block := make([]complex128, phy.FFTLength)
	m.fft.Sequence(block, m.bins)
	scale := complex(1/math.Sqrt(numOccupied), 0)
	for i := range block {
		block[i] *= scale
	}

	out := make([]complex128, phy.CyclicPrefix+phy.FFTLength)
	copy(out, block[phy.FFTLength-phy.CyclicPrefix:])
	copy(out[phy.CyclicPrefix:], block)
	return out
}

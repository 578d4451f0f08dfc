package dsp

import (
	"math/cmplx"

	"github.com/softradio/nonht/internal/phy"
)

// DemodTraining demodulates the two long training symbols of an
// extracted, compensated training field. Each symbol is taken with the
// sixteen samples preceding it serving as its prefix: the guard
// interval for the first, the tail of the first symbol for the second.
func (fe *FrontEnd) DemodTraining(field []complex128) ([]complex128, []complex128) {
	symLen := phy.CyclicPrefix + phy.FFTLength
	sym1 := fe.demodSymbol(field[phy.CyclicPrefix:phy.CyclicPrefix+symLen], 1)
	sym2 := fe.demodSymbol(field[symLen:symLen+symLen], 1)
	return sym1, sym2
}

// EstimateChannel averages the two demodulated training symbols and
// removes the known training values, yielding one complex gain per
// occupied subcarrier.
func (fe *FrontEnd) EstimateChannel(sym1, sym2 []complex128) []complex128 {
	gains := make([]complex128, numOccupied)
	for i := range gains {
		gains[i] = (sym1[i] + sym2[i]) * complex(ltfSign[i]/2, 0)
	}
	return gains
}

// EstimateNoise derives the per-subcarrier noise variance from the
// difference of the two training symbols, which cancels the signal and
// leaves twice the noise power.
func (fe *FrontEnd) EstimateNoise(sym1, sym2 []complex128) float64 {
	var sum float64
	for i := range sym1 {
		d := sym1[i] - sym2[i]
		sum += real(d)*real(d) + imag(d)*imag(d)
	}
	return sum / (2 * numOccupied)
}

// equalize removes the channel response from one demodulated symbol.
// Zero forcing divides by the gain outright; the MMSE variant weights
// by the gain magnitude against the noise floor, trading residual bias
// for noise enhancement on faded subcarriers.
func equalize(occ, gains []complex128, noiseVar float64, eq phy.Equalization) []complex128 {
	out := make([]complex128, len(occ))
	switch eq {
	case phy.EqMMSE:
		for i := range occ {
			h := gains[i]
			den := real(h)*real(h) + imag(h)*imag(h) + noiseVar
			out[i] = occ[i] * cmplx.Conj(h) / complex(den, 0)
		}
	default:
		for i := range occ {
			out[i] = occ[i] / gains[i]
		}
	}
	return out
}

// pilotReference derives the common residual distortion, in amplitude
// and phase, from the four equalized pilots of one symbol. polarity is
// the symbol's position in the pilot polarity sequence.
func pilotReference(eqd []complex128, polarity float64) complex128 {
	var sum complex128
	for i, pi := range pilotIdx {
		sum += eqd[pi] * pilotPattern[i] * complex(polarity, 0)
	}
	return sum / numPilots
}

// dataValues extracts the 48 data subcarrier values of an equalized
// symbol, dividing out the common pilot-tracked distortion when it is
// measurable.
func dataValues(eqd []complex128, polarity float64) []complex128 {
	ref := pilotReference(eqd, polarity)
	out := make([]complex128, numData)
	if cmplx.Abs(ref) < 1e-9 {
		for i, di := range dataIdx {
			out[i] = eqd[di]
		}
		return out
	}
	for i, di := range dataIdx {
		out[i] = eqd[di] / ref
	}
	return out
}

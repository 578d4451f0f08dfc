package dsp

import (
	"math"

	"github.com/softradio/nonht/internal/phy"
)

// qbpskRatio is how far the quadrature energy must dominate before a
// symbol is called quadrature BPSK.
const qbpskRatio = 1.5

// ClassifyFormat examines the two symbols following the header symbol.
// High-throughput packets signal them on the quadrature axis; legacy
// packets carry ordinary data there. The symbols vector holds the
// header symbol followed by the first two data symbols.
func (fe *FrontEnd) ClassifyFormat(symbols, chanEst []complex128, noiseVar, symOffset float64, eq phy.Equalization) phy.Format {
	symLen := phy.CyclicPrefix + phy.FFTLength
	if len(symbols) < 3*symLen {
		return phy.FormatUnknown
	}
	for n := 1; n <= 2; n++ {
		occ := fe.demodSymbol(symbols[n*symLen:(n+1)*symLen], symOffset)
		eqd := equalize(occ, chanEst, noiseVar, eq)
		var re, im float64
		for _, di := range dataIdx {
			re += math.Abs(real(eqd[di]))
			im += math.Abs(imag(eqd[di]))
		}
		if im <= qbpskRatio*re {
			return phy.FormatNonHT
		}
	}
	return phy.FormatHT
}

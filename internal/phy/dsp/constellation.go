package dsp

import (
	"math"

	"github.com/softradio/nonht/internal/phy"
)

// Gray-coded per-axis amplitude tables, indexed by the axis bits with
// the first bit most significant.
var (
	pam2 = [2]float64{-1, 1}
	pam4 = [4]float64{-3, -1, 3, 1}
	pam8 = [8]float64{-7, -5, -1, -3, 7, 5, 1, 3}
)

// axisTable returns the per-axis levels and the constellation
// normalization factor for a modulation.
func axisTable(mod phy.Modulation) ([]float64, float64) {
	switch mod {
	case phy.QPSK:
		return pam2[:], 1 / math.Sqrt2
	case phy.QAM16:
		return pam4[:], 1 / math.Sqrt(10)
	case phy.QAM64:
		return pam8[:], 1 / math.Sqrt(42)
	}
	return pam2[:], 1
}

// MapSubcarriers maps one symbol's worth of interleaved bits onto the
// 48 data subcarrier values. For square constellations the first half
// of each group selects the in-phase level and the second half the
// quadrature level; BPSK uses the in-phase axis alone.
func MapSubcarriers(bits []byte, mod phy.Modulation) []complex128 {
	levels, norm := axisTable(mod)
	nbpsc := len(bits) / numData
	half := nbpsc / 2

	out := make([]complex128, numData)
	for n := 0; n < numData; n++ {
		group := bits[n*nbpsc : (n+1)*nbpsc]
		if mod == phy.BPSK {
			out[n] = complex(levels[group[0]&1]*norm, 0)
			continue
		}
		out[n] = complex(levels[bitsIndex(group[:half])]*norm,
			levels[bitsIndex(group[half:])]*norm)
	}
	return out
}

// DemapSubcarriers hard-slices 48 equalized data values back into bits,
// nearest level per axis.
func DemapSubcarriers(vals []complex128, mod phy.Modulation) []byte {
	levels, norm := axisTable(mod)
	nbpsc := 1
	switch mod {
	case phy.QPSK:
		nbpsc = 2
	case phy.QAM16:
		nbpsc = 4
	case phy.QAM64:
		nbpsc = 6
	}
	half := nbpsc / 2

	out := make([]byte, 0, len(vals)*nbpsc)
	for _, v := range vals {
		if mod == phy.BPSK {
			out = append(out, nearestLevel(real(v)/norm, levels, 1)...)
			continue
		}
		out = append(out, nearestLevel(real(v)/norm, levels, half)...)
		out = append(out, nearestLevel(imag(v)/norm, levels, half)...)
	}
	return out
}

// bitsIndex packs axis bits, first bit most significant.
func bitsIndex(bits []byte) int {
	idx := 0
	for _, b := range bits {
		idx = idx<<1 | int(b&1)
	}
	return idx
}

// nearestLevel finds the closest table level to x and unpacks its index
// back into width bits.
func nearestLevel(x float64, levels []float64, width int) []byte {
	best, bestDist := 0, math.Inf(1)
	for i, l := range levels {
		if d := math.Abs(x - l); d < bestDist {
			best, bestDist = i, d
		}
	}
	bits := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		bits[i] = byte(best & 1)
		best >>= 1
	}
	return bits
}

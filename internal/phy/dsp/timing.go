package dsp

import "math/cmplx"

// EstimateSymbolTiming cross-correlates buf against the canonical long
// training field and returns the offset of the global maximum of the
// normalized metric, provided it reaches threshold. Only offsets with
// the full training field inside buf are considered.
func (fe *FrontEnd) EstimateSymbolTiming(buf []complex128, threshold float64) (int, bool) {
	ref := fe.ltfRef()
	fieldLen := len(ref)

	var refEnergy float64
	for _, v := range ref {
		refEnergy += real(v)*real(v) + imag(v)*imag(v)
	}

	best, bestMetric := 0, 0.0
	for n := 0; n+fieldLen <= len(buf); n++ {
		var corr complex128
		var energy float64
		for i, r := range ref {
			v := buf[n+i]
			corr += v * cmplx.Conj(r)
			energy += real(v)*real(v) + imag(v)*imag(v)
		}
		if energy == 0 {
			continue
		}
		m := real(corr)*real(corr) + imag(corr)*imag(corr)
		m /= energy * refEnergy
		if m > bestMetric {
			best, bestMetric = n, m
		}
	}
	if bestMetric < threshold {
		return 0, false
	}
	return best, true
}

// ltfRef caches the canonical training field reference.
func (fe *FrontEnd) ltfRef() []complex128 {
	if fe.ltf == nil {
		fe.ltf = LLTF()
	}
	return fe.ltf
}

package dsp

import (
	"math"

	"github.com/softradio/nonht/internal/phy"
)

// Subcarrier plan of the legacy 64-point numerology: 52 occupied
// subcarriers at k = -26..26 excluding DC, of which four carry pilots
// (k = -21, -7, 7, 21) and 48 carry data. Occupied-subcarrier vectors
// throughout this package run in ascending k order.
const (
	numOccupied = 52
	numData     = 48
	numPilots   = 4
)

var occupiedSubcarriers = func() [numOccupied]int {
	var s [numOccupied]int
	i := 0
	for k := -26; k <= 26; k++ {
		if k == 0 {
			continue
		}
		s[i] = k
		i++
	}
	return s
}()

// dataIdx and pilotIdx are the positions of the data and pilot
// subcarriers within the occupied vector.
var dataIdx, pilotIdx = func() ([numData]int, [numPilots]int) {
	var d [numData]int
	var p [numPilots]int
	di, pi := 0, 0
	for i, k := range occupiedSubcarriers {
		if isPilot(k) {
			p[pi] = i
			pi++
		} else {
			d[di] = i
			di++
		}
	}
	return d, p
}()

// pilotPattern is the fixed pilot value per pilot subcarrier in
// ascending k order (-21, -7, 7, 21).
var pilotPattern = [numPilots]complex128{1, 1, 1, -1}

func isPilot(k int) bool {
	return k == -21 || k == -7 || k == 7 || k == 21
}

// binFor maps a subcarrier index to its FFT bin.
func binFor(k int) int {
	return (k + phy.FFTLength) % phy.FFTLength
}

// longTraining holds the long training sequence over k = -26..26 in
// ascending order, DC included as zero.
var longTraining = [53]float64{
	1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1, 1, 1, -1, -1, 1, 1, -1,
	1, -1, 1, 1, 1, 1,
	0,
	1, -1, -1, 1, 1, -1, 1, -1, 1, -1, -1, -1, -1, -1, 1, 1, -1, -1, 1,
	-1, 1, -1, 1, 1, 1, 1,
}

// ltfSign is the long training value per occupied subcarrier.
var ltfSign = func() [numOccupied]float64 {
	var s [numOccupied]float64
	for i, k := range occupiedSubcarriers {
		s[i] = longTraining[k+26]
	}
	return s
}()

// shortTraining holds the short training sequence over k = -26..26 in
// ascending order. Twelve subcarriers on multiples of four are active,
// giving the 16-sample time-domain periodicity the packet detector and
// coarse frequency estimator rely on.
var shortTraining = func() [53]complex128 {
	var s [53]complex128
	v := complex(math.Sqrt(13.0/6.0), 0)
	pos := map[int]complex128{
		-24: v * (1 + 1i), -20: v * (-1 - 1i), -16: v * (1 + 1i),
		-12: v * (-1 - 1i), -8: v * (-1 - 1i), -4: v * (1 + 1i),
		4: v * (-1 - 1i), 8: v * (-1 - 1i), 12: v * (1 + 1i),
		16: v * (1 + 1i), 20: v * (1 + 1i), 24: v * (1 + 1i),
	}
	for k, val := range pos {
		s[k+26] = val
	}
	return s
}()

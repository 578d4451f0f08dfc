package dsp

import "github.com/softradio/nonht/internal/phy"

// interleaveTable builds the forward permutation for one symbol:
// source bit k lands at transmitted position table[k]. The first stage
// spreads adjacent coded bits across subcarriers; the second rotates
// bits across constellation significance.
func interleaveTable(mcs phy.MCS) []int {
	ncbps, nbpsc := mcs.NCBPS, mcs.NBPSC
	s := nbpsc / 2
	if s < 1 {
		s = 1
	}
	table := make([]int, ncbps)
	for k := 0; k < ncbps; k++ {
		i := (ncbps/16)*(k%16) + k/16
		j := s*(i/s) + (i+ncbps-16*i/ncbps)%s
		table[k] = j
	}
	return table
}

// Interleave permutes one symbol's worth of coded bits.
func Interleave(bits []byte, mcs phy.MCS) []byte {
	table := interleaveTable(mcs)
	out := make([]byte, len(bits))
	for k, j := range table {
		out[j] = bits[k]
	}
	return out
}

// Deinterleave inverts Interleave using the same forward table, so the
// two stay consistent by construction.
func Deinterleave(bits []byte, mcs phy.MCS) []byte {
	table := interleaveTable(mcs)
	out := make([]byte, len(bits))
	for k, j := range table {
		out[k] = bits[j]
	}
	return out
}

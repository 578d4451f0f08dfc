package dsp

import "github.com/softradio/nonht/internal/phy"

// RecoverHeader decodes one aligned header symbol. The header is BPSK
// at rate 1/2 regardless of the payload rate; its 48 coded bits yield
// 24 decoded bits. Bit 17 carries even parity over bits 0-16, reported
// alongside. The six tail zeros terminate the encoder, so the
// traceback starts at the zero state.
func (fe *FrontEnd) RecoverHeader(symbol, chanEst []complex128, noiseVar, symOffset float64, eq phy.Equalization) ([]byte, bool) {
	occ := fe.demodSymbol(symbol, symOffset)
	eqd := equalize(occ, chanEst, noiseVar, eq)
	vals := dataValues(eqd, PilotPolarity(0))

	coded := make([]byte, numData)
	for i, v := range vals {
		if real(v) > 0 {
			coded[i] = 1
		}
	}
	deint := Deinterleave(coded, phy.MCSTable[0])
	bits := viterbiDecode(hardBits(deint), false)

	var par byte
	for _, b := range bits[:17] {
		par ^= b & 1
	}
	return bits, par == bits[17]&1
}

// hardBits lifts hard-decision bits onto the erasure-capable lattice
// the Viterbi decoder consumes.
func hardBits(in []byte) []int8 {
	out := make([]int8, len(in))
	for i, v := range in {
		out[i] = int8(v)
	}
	return out
}

package phy

import "fmt"

// Header field geometry. The 24 decoded header bits carry the rate in
// bits 0-2 (most significant first, bit 3 is the fixed trailing rate
// bit), the payload length in bits 5-16 (least significant first), an
// even parity bit over bits 0-16 at bit 17 and six tail zeros.
const (
	headerBits    = 24
	lengthBitOff  = 5
	lengthBitLen  = 12
	parityBitOff  = 17
	serviceBits   = 16
	tailBits      = 6
	rateBitLen    = 3
)

// rateIndex maps the 3-bit rate field to a modulation/coding index.
func rateIndex(rate int) int {
	if rate <= 1 {
		return rate + 6
	}
	return rate % 6
}

// rateFields is the inverse of rateIndex: the header rate field that
// encodes each modulation/coding index.
var rateFields = [8]int{6, 7, 2, 3, 4, 5, 0, 1}

// RateField returns the 3-bit header rate field for an MCS index.
func RateField(mcsIndex int) int { return rateFields[mcsIndex] }

// parseHeader derives the frame parameters from 24 decoded header
// bits. The parity check is the caller's concern; a zero payload
// length is rejected here.
func parseHeader(bits []byte) (FrameParameters, error) {
	if len(bits) < headerBits {
		return FrameParameters{}, fmt.Errorf("header: got %d bits, want %d", len(bits), headerBits)
	}
	rate := 0
	for i := 0; i < rateBitLen; i++ {
		rate = rate<<1 | int(bits[i]&1)
	}
	length := 0
	for i := 0; i < lengthBitLen; i++ {
		length |= int(bits[lengthBitOff+i]&1) << i
	}
	if length == 0 {
		return FrameParameters{}, fmt.Errorf("header: zero payload length")
	}

	idx := rateIndex(rate)
	ndbps := MCSTable[idx].NDBPS
	nsym := (8*length + serviceBits + tailBits + ndbps - 1) / ndbps

	return FrameParameters{
		MCSIndex:       idx,
		PSDULength:     length,
		NumDataSymbols: nsym,
	}, nil
}

// maxDataSymbols is the largest data-field length any legal header can
// request, used to size the payload buffer once at configuration time.
var maxDataSymbols = (8*MaxPSDULength + serviceBits + tailBits + MCSTable[0].NDBPS - 1) / MCSTable[0].NDBPS

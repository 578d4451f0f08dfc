package dsp

// lfsr is the x^7 + x^4 + 1 scrambler register.
type lfsr struct {
	state byte
}

func (l *lfsr) next() byte {
	out := ((l.state >> 6) ^ (l.state >> 3)) & 1
	l.state = (l.state<<1 | out) & 0x7f
	return out
}

// ScrambleBits XORs bits with the scrambler sequence started from seed.
// The operation is its own inverse.
func ScrambleBits(seed byte, bits []byte) []byte {
	l := lfsr{state: seed & 0x7f}
	out := make([]byte, len(bits))
	for i, b := range bits {
		out[i] = (b & 1) ^ l.next()
	}
	return out
}

// recoverSeed finds the scrambler seed whose sequence reproduces the
// first seven scrambled service bits, which are zero before scrambling.
// All 127 nonzero seeds are distinct over seven outputs, so the match
// is unique.
func recoverSeed(scrambled []byte) (byte, bool) {
	for seed := byte(1); seed <= 0x7f; seed++ {
		l := lfsr{state: seed}
		match := true
		for i := 0; i < 7; i++ {
			if l.next() != scrambled[i]&1 {
				match = false
				break
			}
		}
		if match {
			return seed, true
		}
	}
	return 0, false
}

// PilotPolarity returns the pilot polarity for symbol n of a packet,
// +1 or -1, following the scrambler sequence from the all-ones seed.
// Symbol 0 is the header symbol.
func PilotPolarity(n int) float64 {
	return pilotPolaritySeq[n%len(pilotPolaritySeq)]
}

var pilotPolaritySeq = func() [127]float64 {
	var seq [127]float64
	l := lfsr{state: 0x7f}
	for i := range seq {
		seq[i] = 1 - 2*float64(l.next())
	}
	return seq
}()

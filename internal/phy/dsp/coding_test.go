package dsp

import (
	"math/rand/v2"
	"testing"

	"github.com/softradio/nonht/internal/phy"
)

func randomBits(rng *rand.Rand, n int) []byte {
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.UintN(2))
	}
	return bits
}

// tailTerminated appends six zero bits so the encoder ends in the zero
// state.
func tailTerminated(bits []byte) []byte {
	return append(append([]byte{}, bits...), 0, 0, 0, 0, 0, 0)
}

func TestViterbiRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	msg := tailTerminated(randomBits(rng, 90))
	coded := ConvEncode(msg)

	got := viterbiDecode(hardBits(coded), false)
	for i := range msg {
		if got[i] != msg[i] {
			t.Fatalf("bit %d: got %d, want %d", i, got[i], msg[i])
		}
	}
}

func TestViterbiCorrectsBitErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	msg := tailTerminated(randomBits(rng, 90))
	coded := ConvEncode(msg)

	// Two well-separated channel errors are within the code's reach.
	coded[10] ^= 1
	coded[100] ^= 1

	got := viterbiDecode(hardBits(coded), false)
	for i := range msg {
		if got[i] != msg[i] {
			t.Fatalf("bit %d: got %d, want %d", i, got[i], msg[i])
		}
	}
}

func TestPuncturedRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, rate := range []phy.CodeRate{{Num: 1, Den: 2}, {Num: 2, Den: 3}, {Num: 3, Den: 4}} {
		// Message sized so the punctured stream covers whole patterns.
		msg := tailTerminated(randomBits(rng, 138))
		punctured := Puncture(ConvEncode(msg), rate)
		got := viterbiDecode(depuncture(punctured, rate), false)
		for i := range msg {
			if got[i] != msg[i] {
				t.Fatalf("rate %d/%d bit %d: got %d, want %d", rate.Num, rate.Den, i, got[i], msg[i])
			}
		}
	}
}

func TestInterleaveInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for idx, mcs := range phy.MCSTable {
		bits := randomBits(rng, mcs.NCBPS)
		got := Deinterleave(Interleave(bits, mcs), mcs)
		for i := range bits {
			if got[i] != bits[i] {
				t.Fatalf("mcs %d bit %d: got %d, want %d", idx, i, got[i], bits[i])
			}
		}
	}
}

func TestInterleaveSpreadsAdjacentBits(t *testing.T) {
	// Adjacent coded bits must land on different subcarriers.
	mcs := phy.MCSTable[0]
	table := interleaveTable(mcs)
	for k := 0; k+1 < len(table); k++ {
		if table[k] == table[k+1] {
			t.Fatalf("bits %d and %d map to the same position %d", k, k+1, table[k])
		}
	}
}

func TestConstellationRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	mods := []struct {
		mod   phy.Modulation
		nbpsc int
	}{
		{phy.BPSK, 1}, {phy.QPSK, 2}, {phy.QAM16, 4}, {phy.QAM64, 6},
	}
	for _, m := range mods {
		bits := randomBits(rng, 48*m.nbpsc)
		vals := MapSubcarriers(bits, m.mod)

		// Slight perturbation must not move any point across a
		// decision boundary.
		for i := range vals {
			vals[i] += complex(0.01, -0.01)
		}
		got := DemapSubcarriers(vals, m.mod)
		for i := range bits {
			if got[i] != bits[i] {
				t.Fatalf("%v bit %d: got %d, want %d", m.mod, i, got[i], bits[i])
			}
		}
	}
}

func TestConstellationUnitPower(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for _, m := range []struct {
		mod   phy.Modulation
		nbpsc int
	}{
		{phy.QPSK, 2}, {phy.QAM16, 4}, {phy.QAM64, 6},
	} {
		var power float64
		const rounds = 200
		for r := 0; r < rounds; r++ {
			for _, v := range MapSubcarriers(randomBits(rng, 48*m.nbpsc), m.mod) {
				power += real(v)*real(v) + imag(v)*imag(v)
			}
		}
		power /= rounds * 48
		if power < 0.9 || power > 1.1 {
			t.Errorf("%v mean power = %v, want about 1", m.mod, power)
		}
	}
}

func TestScrambleSelfInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	bits := randomBits(rng, 500)
	got := ScrambleBits(0x2c, ScrambleBits(0x2c, bits))
	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("bit %d: got %d, want %d", i, got[i], bits[i])
		}
	}
}

func TestRecoverSeed(t *testing.T) {
	for _, seed := range []byte{0x01, 0x2c, 0x5d, 0x7f} {
		scrambled := ScrambleBits(seed, make([]byte, 16))
		got, ok := recoverSeed(scrambled[:7])
		if !ok || got != seed {
			t.Errorf("seed %#x: got %#x, ok %v", seed, got, ok)
		}
	}
	if _, ok := recoverSeed(make([]byte, 7)); ok {
		t.Error("all-zero sequence matched a seed")
	}
}

func TestPilotPolaritySequence(t *testing.T) {
	want := []float64{1, 1, 1, 1, -1, -1, -1, 1}
	for n, w := range want {
		if got := PilotPolarity(n); got != w {
			t.Errorf("symbol %d: polarity %v, want %v", n, got, w)
		}
	}
	if PilotPolarity(127) != PilotPolarity(0) {
		t.Error("sequence does not repeat with period 127")
	}
}

package dsp

import (
	"math/rand/v2"
	"testing"

	"github.com/softradio/nonht/internal/phy"
	"github.com/softradio/nonht/internal/testutil"
)

// flatChannel derives the channel estimate a receiver would see for an
// undistorted stream, capturing the demodulator's inherent scaling.
func flatChannel(fe *FrontEnd) ([]complex128, float64) {
	sym1, sym2 := fe.DemodTraining(LLTF())
	return fe.EstimateChannel(sym1, sym2), fe.EstimateNoise(sym1, sym2)
}

// testHeaderBits assembles 24 header bits with a valid parity bit.
func testHeaderBits(mcsIndex, length int) []byte {
	bits := make([]byte, 24)
	rate := phy.RateField(mcsIndex)
	for i := 0; i < 3; i++ {
		bits[i] = byte(rate>>(2-i)) & 1
	}
	bits[3] = 1
	for i := 0; i < 12; i++ {
		bits[5+i] = byte(length>>i) & 1
	}
	for _, b := range bits[:17] {
		bits[17] ^= b
	}
	return bits
}

func headerTestSymbol(bits []byte) []complex128 {
	coded := Interleave(ConvEncode(bits), phy.MCSTable[0])
	return NewModulator().Symbol(MapSubcarriers(coded, phy.BPSK), PilotPolarity(0))
}

func TestModulateDemodulateRoundTrip(t *testing.T) {
	fe := New(phy.CBW20)
	rng := rand.New(rand.NewPCG(20, 21))
	vals := MapSubcarriers(randomBits(rng, 48*2), phy.QPSK)
	sym := NewModulator().Symbol(vals, 1)

	for _, offset := range []float64{1, 0.5, 0} {
		occ := fe.demodSymbol(sym, offset)
		eqd := equalize(occ, mustFlatGains(fe), 0, phy.EqZeroForcing)
		got := dataValues(eqd, 1)
		testutil.AssertSliceClose(t, got, vals, 1e-9)
	}
}

func mustFlatGains(fe *FrontEnd) []complex128 {
	gains, _ := flatChannel(fe)
	return gains
}

func TestChannelEstimateFlat(t *testing.T) {
	fe := New(phy.CBW20)
	gains, noise := flatChannel(fe)
	if len(gains) != numOccupied {
		t.Fatalf("%d gains, want %d", len(gains), numOccupied)
	}
	for i := 1; i < len(gains); i++ {
		testutil.AssertClose(t, gains[i], gains[0], 1e-9)
	}
	testutil.AssertFloatClose(t, noise, 0, 1e-12)
}

func TestChannelEstimateTracksGain(t *testing.T) {
	fe := New(phy.CBW20)
	field := LLTF()
	g := complex(0.3, 0.4)
	for i := range field {
		field[i] *= g
	}
	sym1, sym2 := fe.DemodTraining(field)
	gains := fe.EstimateChannel(sym1, sym2)
	flat := mustFlatGains(fe)
	for i := range gains {
		testutil.AssertClose(t, gains[i], flat[i]*g, 1e-9)
	}
}

func TestRecoverHeaderRoundTrip(t *testing.T) {
	fe := New(phy.CBW20)
	gains, noise := flatChannel(fe)

	cases := []struct {
		mcs, length int
	}{
		{0, 1}, {0, 100}, {3, 1500}, {7, 4095},
	}
	for _, tc := range cases {
		want := testHeaderBits(tc.mcs, tc.length)
		sym := headerTestSymbol(want)
		for _, eq := range []phy.Equalization{phy.EqZeroForcing, phy.EqMMSE} {
			got, parityOK := fe.RecoverHeader(sym, gains, noise, 0.5, eq)
			if !parityOK {
				t.Fatalf("mcs %d len %d: parity failed", tc.mcs, tc.length)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("mcs %d len %d bit %d: got %d, want %d", tc.mcs, tc.length, i, got[i], want[i])
				}
			}
		}
	}
}

func TestRecoverHeaderParityError(t *testing.T) {
	fe := New(phy.CBW20)
	gains, noise := flatChannel(fe)

	bits := testHeaderBits(2, 64)
	bits[17] ^= 1
	_, parityOK := fe.RecoverHeader(headerTestSymbol(bits), gains, noise, 0.5, phy.EqZeroForcing)
	if parityOK {
		t.Error("flipped parity bit went unnoticed")
	}
}

func TestClassifyFormat(t *testing.T) {
	fe := New(phy.CBW20)
	gains, noise := flatChannel(fe)
	rng := rand.New(rand.NewPCG(30, 31))
	mod := NewModulator()

	header := headerTestSymbol(testHeaderBits(0, 200))

	build := func(quadrature bool) []complex128 {
		probe := append([]complex128{}, header...)
		for n := 1; n <= 2; n++ {
			vals := MapSubcarriers(randomBits(rng, 48), phy.BPSK)
			if quadrature {
				for i := range vals {
					vals[i] *= 1i
				}
			}
			probe = append(probe, mod.Symbol(vals, PilotPolarity(n))...)
		}
		return probe
	}

	if got := fe.ClassifyFormat(build(false), gains, noise, 0.5, phy.EqZeroForcing); got != phy.FormatNonHT {
		t.Errorf("in-phase symbols classified as %v", got)
	}
	if got := fe.ClassifyFormat(build(true), gains, noise, 0.5, phy.EqZeroForcing); got != phy.FormatHT {
		t.Errorf("quadrature symbols classified as %v", got)
	}
	if got := fe.ClassifyFormat(header, gains, noise, 0.5, phy.EqZeroForcing); got != phy.FormatUnknown {
		t.Errorf("truncated probe classified as %v", got)
	}
}

func TestDecodePayloadRoundTrip(t *testing.T) {
	fe := New(phy.CBW20)
	gains, noise := flatChannel(fe)
	rng := rand.New(rand.NewPCG(40, 41))
	mod := NewModulator()

	for _, mcsIndex := range []int{0, 2, 5, 7} {
		mcs := phy.MCSTable[mcsIndex]
		psdu := make([]byte, 120)
		for i := range psdu {
			psdu[i] = byte(rng.UintN(256))
		}
		nsym := (16 + 8*len(psdu) + 6 + mcs.NDBPS - 1) / mcs.NDBPS

		raw := make([]byte, nsym*mcs.NDBPS)
		for i, b := range psdu {
			for j := 0; j < 8; j++ {
				raw[16+8*i+j] = (b >> j) & 1
			}
		}
		bits := ScrambleBits(0x2c, raw)
		for i := 0; i < 6; i++ {
			bits[16+8*len(psdu)+i] = 0
		}

		coded := Puncture(ConvEncode(bits), mcs.Rate)
		var payload []complex128
		for n := 0; n < nsym; n++ {
			chunk := Interleave(coded[n*mcs.NCBPS:(n+1)*mcs.NCBPS], mcs)
			payload = append(payload, mod.Symbol(MapSubcarriers(chunk, mcs.Modulation), PilotPolarity(n+1))...)
		}

		frame := phy.Frame{
			Params: phy.FrameParameters{
				MCSIndex:       mcsIndex,
				PSDULength:     len(psdu),
				NumDataSymbols: nsym,
			},
			Payload: payload,
			Channel: phy.ChannelState{Gains: gains, NoiseVar: noise},
		}
		got, err := fe.DecodePayload(frame, 0.5, phy.EqZeroForcing)
		testutil.AssertNoError(t, err)
		for i := range psdu {
			if got[i] != psdu[i] {
				t.Fatalf("mcs %d octet %d: got %#x, want %#x", mcsIndex, i, got[i], psdu[i])
			}
		}
	}
}

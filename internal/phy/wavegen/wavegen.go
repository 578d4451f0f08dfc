// Package wavegen synthesizes legacy OFDM packet waveforms for tests
// and tooling. It composes the same modulation primitives the receive
// chain demodulates with, so a generated packet round-trips through
// the receiver bit for bit, and it can apply controlled impairments
// (frequency offset, gain, noise) and deliberate header corruption.
package wavegen

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/softradio/nonht/internal/phy"
	"github.com/softradio/nonht/internal/phy/dsp"
)

// defaultSeed is the scrambler seed used when none is given.
const defaultSeed = 0x5d

// Params describes one packet waveform.
type Params struct {
	Bandwidth phy.Bandwidth
	MCSIndex  int
	PSDU      []byte

	// ScramblerSeed initializes the data scrambler; zero selects the
	// default.
	ScramblerSeed byte

	// Impairments. Gain zero means unity; noise is complex Gaussian
	// with the given per-sample standard deviation.
	CFOHz       float64
	Gain        float64
	NoiseStdDev float64
	Seed        uint64

	// PadFront and PadBack prepend and append idle samples (noise
	// only, when enabled).
	PadFront int
	PadBack  int

	// HeaderParityError inverts the header parity bit.
	HeaderParityError bool

	// LengthOverride replaces the header length field without changing
	// the transmitted data field, for malformed-header testing.
	LengthOverride *int
}

// NumDataSymbols returns the data-field length in symbols for a PSDU
// of n octets at the given MCS.
func NumDataSymbols(mcsIndex, n int) int {
	ndbps := phy.MCSTable[mcsIndex].NDBPS
	return (16 + 8*n + 6 + ndbps - 1) / ndbps
}

// Generate synthesizes the packet waveform: short and long training
// fields, header symbol, data symbols, with padding and impairments
// applied.
func Generate(p Params) ([]complex128, error) {
	if !p.Bandwidth.Valid() {
		return nil, fmt.Errorf("wavegen: invalid bandwidth class %d", int(p.Bandwidth))
	}
	if p.MCSIndex < 0 || p.MCSIndex >= len(phy.MCSTable) {
		return nil, fmt.Errorf("wavegen: invalid mcs index %d", p.MCSIndex)
	}
	if len(p.PSDU) == 0 || len(p.PSDU) > phy.MaxPSDULength {
		return nil, fmt.Errorf("wavegen: psdu length %d outside [1,%d]", len(p.PSDU), phy.MaxPSDULength)
	}

	mcs := phy.MCSTable[p.MCSIndex]
	mod := dsp.NewModulator()

	out := make([]complex128, 0, p.PadFront+4*160)
	out = append(out, make([]complex128, p.PadFront)...)
	out = append(out, dsp.LSTF()...)
	out = append(out, dsp.LLTF()...)
	out = append(out, headerSymbol(mod, p)...)

	seed := p.ScramblerSeed
	if seed == 0 {
		seed = defaultSeed
	}
	nsym := NumDataSymbols(p.MCSIndex, len(p.PSDU))
	bits := dataBits(p.PSDU, seed, nsym*mcs.NDBPS)
	coded := dsp.Puncture(dsp.ConvEncode(bits), mcs.Rate)
	for n := 0; n < nsym; n++ {
		chunk := dsp.Interleave(coded[n*mcs.NCBPS:(n+1)*mcs.NCBPS], mcs)
		vals := dsp.MapSubcarriers(chunk, mcs.Modulation)
		out = append(out, mod.Symbol(vals, dsp.PilotPolarity(n+1))...)
	}
	out = append(out, make([]complex128, p.PadBack)...)

	impair(out, p)
	return out, nil
}

// headerSymbol builds the BPSK rate-1/2 header symbol: 3-bit rate
// field, fixed one bit, reserved zero, 12-bit length, even parity and
// six tail zeros.
func headerSymbol(mod *dsp.Modulator, p Params) []complex128 {
	length := len(p.PSDU)
	if p.LengthOverride != nil {
		length = *p.LengthOverride
	}
	rate := phy.RateField(p.MCSIndex)

	bits := make([]byte, 24)
	for i := 0; i < 3; i++ {
		bits[i] = byte(rate>>(2-i)) & 1
	}
	bits[3] = 1
	for i := 0; i < 12; i++ {
		bits[5+i] = byte(length>>i) & 1
	}
	var par byte
	for _, b := range bits[:17] {
		par ^= b
	}
	bits[17] = par
	if p.HeaderParityError {
		bits[17] ^= 1
	}

	coded := dsp.Interleave(dsp.ConvEncode(bits), phy.MCSTable[0])
	return mod.Symbol(dsp.MapSubcarriers(coded, phy.BPSK), dsp.PilotPolarity(0))
}

// dataBits lays out the scrambled data field: 16-bit service field,
// PSDU octets least significant bit first, six tail bits and pad bits
// to fill the last symbol. The tail positions are zeroed after
// scrambling so they flush the convolutional encoder.
func dataBits(psdu []byte, seed byte, total int) []byte {
	raw := make([]byte, total)
	for i, b := range psdu {
		for j := 0; j < 8; j++ {
			raw[16+8*i+j] = (b >> j) & 1
		}
	}
	bits := dsp.ScrambleBits(seed, raw)
	tail := 16 + 8*len(psdu)
	for i := 0; i < 6; i++ {
		bits[tail+i] = 0
	}
	return bits
}

// impair applies gain, frequency offset and additive noise in place.
func impair(samples []complex128, p Params) {
	gain := p.Gain
	if gain == 0 {
		gain = 1
	}
	fs := p.Bandwidth.SampleRate()
	rot := p.CFOHz != 0
	for n := range samples {
		v := samples[n] * complex(gain, 0)
		if rot {
			v *= cmplx.Exp(complex(0, 2*math.Pi*p.CFOHz*float64(n)/fs))
		}
		samples[n] = v
	}
	if p.NoiseStdDev > 0 {
		rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
		sigma := p.NoiseStdDev / math.Sqrt2
		for n := range samples {
			samples[n] += complex(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
		}
	}
}

package dsp

import (
	"fmt"

	"github.com/softradio/nonht/internal/phy"
)

// serviceBits is the scrambler-initialization field preceding the data
// octets in the decoded bit stream.
const serviceBits = 16

// DecodePayload decodes the accumulated data-field samples of a frame
// into its payload octets. Each symbol is demodulated, equalized and
// pilot-tracked, hard-demapped, deinterleaved and depunctured; the
// whole coded stream is then Viterbi-decoded at once and descrambled
// with the seed recovered from the service field. The trailing pad
// bits leave the decoder in an arbitrary state, so the traceback
// starts from the best metric.
func (fe *FrontEnd) DecodePayload(f phy.Frame, symOffset float64, eq phy.Equalization) ([]byte, error) {
	mcs := phy.MCSTable[f.Params.MCSIndex]
	symLen := phy.CyclicPrefix + phy.FFTLength
	nsym := f.Params.NumDataSymbols
	if len(f.Payload) < nsym*symLen {
		return nil, fmt.Errorf("payload: %d samples, want %d", len(f.Payload), nsym*symLen)
	}

	coded := make([]int8, 0, 2*nsym*mcs.NDBPS)
	for n := 0; n < nsym; n++ {
		occ := fe.demodSymbol(f.Payload[n*symLen:(n+1)*symLen], symOffset)
		eqd := equalize(occ, f.Channel.Gains, f.Channel.NoiseVar, eq)
		vals := dataValues(eqd, PilotPolarity(n+1))
		bits := DemapSubcarriers(vals, mcs.Modulation)
		coded = append(coded, depuncture(Deinterleave(bits, mcs), mcs.Rate)...)
	}

	bits := viterbiDecode(coded, true)
	need := serviceBits + 8*f.Params.PSDULength
	if len(bits) < need {
		return nil, fmt.Errorf("payload: %d decoded bits, want %d", len(bits), need)
	}

	seed, ok := recoverSeed(bits[:7])
	if !ok {
		return nil, fmt.Errorf("payload: no scrambler seed matches service field")
	}
	clear := ScrambleBits(seed, bits[:need])

	psdu := make([]byte, f.Params.PSDULength)
	for i := range psdu {
		var b byte
		for j := 0; j < 8; j++ {
			b |= (clear[serviceBits+8*i+j] & 1) << j
		}
		psdu[i] = b
	}
	return psdu, nil
}

package dsp

import (
	"math/bits"

	"github.com/softradio/nonht/internal/phy"
)

// Industry-standard K=7 convolutional code, generators 133/171 octal.
const (
	convStates = 64
	genA       = 0o133
	genB       = 0o171
)

func parity(x int) byte {
	return byte(bits.OnesCount(uint(x)) & 1)
}

// ConvEncode runs the rate-1/2 convolutional encoder over bits, two
// coded bits per input bit, starting from the zero state. Callers
// append six zero tail bits to flush the encoder back to zero.
func ConvEncode(in []byte) []byte {
	out := make([]byte, 0, 2*len(in))
	reg := 0
	for _, b := range in {
		word := int(b&1)<<6 | reg
		out = append(out, parity(word&genA), parity(word&genB))
		reg = word >> 1
	}
	return out
}

// Puncture drops coded bits per the standard puncturing patterns to
// reach rates 2/3 and 3/4. Rate 1/2 passes through unchanged.
func Puncture(coded []byte, rate phy.CodeRate) []byte {
	switch {
	case rate.Num == 2 && rate.Den == 3:
		out := make([]byte, 0, len(coded)*3/4)
		for i, b := range coded {
			if i%4 != 3 {
				out = append(out, b)
			}
		}
		return out
	case rate.Num == 3 && rate.Den == 4:
		out := make([]byte, 0, len(coded)*2/3)
		for i, b := range coded {
			if m := i % 6; m != 3 && m != 4 {
				out = append(out, b)
			}
		}
		return out
	}
	return coded
}

// depuncture re-expands a punctured stream to the rate-1/2 lattice,
// marking the dropped positions as erasures (-1).
func depuncture(coded []byte, rate phy.CodeRate) []int8 {
	switch {
	case rate.Num == 2 && rate.Den == 3:
		out := make([]int8, 0, len(coded)*4/3)
		for i, b := range coded {
			out = append(out, int8(b))
			if i%3 == 2 {
				out = append(out, -1)
			}
		}
		return out
	case rate.Num == 3 && rate.Den == 4:
		out := make([]int8, 0, len(coded)*3/2)
		for i, b := range coded {
			out = append(out, int8(b))
			if i%4 == 2 {
				out = append(out, -1, -1)
			}
		}
		return out
	}
	out := make([]int8, len(coded))
	for i, b := range coded {
		out[i] = int8(b)
	}
	return out
}

// viterbiDecode runs a hard-decision Viterbi decoder over a rate-1/2
// coded stream with erasure support: positions marked -1 contribute no
// branch cost. When fromBest is false the traceback starts at the zero
// state, matching a tail-terminated stream; otherwise it starts at the
// best-metric state, for streams whose final state is unknown.
func viterbiDecode(coded []int8, fromBest bool) []byte {
	n := len(coded) / 2
	const inf = 1 << 28

	metric := make([]int, convStates)
	next := make([]int, convStates)
	for i := range metric {
		metric[i] = inf
	}
	metric[0] = 0

	surv := make([]uint8, n*convStates)
	for step := 0; step < n; step++ {
		a, b := coded[2*step], coded[2*step+1]
		for i := range next {
			next[i] = inf
		}
		row := surv[step*convStates:]
		for s := 0; s < convStates; s++ {
			if metric[s] >= inf {
				continue
			}
			for bit := 0; bit < 2; bit++ {
				word := bit<<6 | s
				cost := metric[s]
				if a >= 0 && byte(a) != parity(word&genA) {
					cost++
				}
				if b >= 0 && byte(b) != parity(word&genB) {
					cost++
				}
				t := word >> 1
				if cost < next[t] {
					next[t] = cost
					row[t] = uint8(s)
				}
			}
		}
		copy(metric, next)
	}

	state := 0
	if fromBest {
		for s := 1; s < convStates; s++ {
			if metric[s] < metric[state] {
				state = s
			}
		}
	}

	out := make([]byte, n)
	for step := n - 1; step >= 0; step-- {
		out[step] = byte(state >> 5)
		state = int(surv[step*convStates+state])
	}
	return out
}

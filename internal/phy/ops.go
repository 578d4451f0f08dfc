package phy

// Format is the label produced by the format classifier.
type Format int

const (
	FormatUnknown Format = iota
	FormatNonHT
	FormatHT
)

func (f Format) String() string {
	switch f {
	case FormatNonHT:
		return "non-HT"
	case FormatHT:
		return "HT"
	}
	return "unknown"
}

// Equalization selects the equalizer used during header recovery and
// format classification.
type Equalization int

const (
	EqZeroForcing Equalization = iota
	EqMMSE
)

// FrontEnd bundles the numeric operators the receiver consumes. Every
// method is a pure input/output transformation; implementations carry
// no state between calls. Stateful sub-collaborators (gain control,
// derotation, the resynchronization delay line) are obtained through
// the New* constructors and owned by the caller.
//
// An implementation is bound to one bandwidth class at construction.
type FrontEnd interface {
	// DetectPacket searches a sliding sample window for the repeating
	// preamble pattern and returns the offset of its start.
	DetectPacket(window []complex128) (offset int, ok bool)

	// EstimateCoarseCFO estimates the carrier frequency offset, in Hz,
	// from the preamble samples in window.
	EstimateCoarseCFO(window []complex128) float64

	// EstimateSymbolTiming searches the compensated acquisition buffer
	// for the training-field start. A candidate is only reported when
	// the full two-symbol training field lies inside buf and its
	// normalized correlation metric reaches threshold.
	EstimateSymbolTiming(buf []complex128, threshold float64) (start int, ok bool)

	// EstimateFineCFO estimates the residual frequency offset, in Hz,
	// from an extracted two-symbol training field.
	EstimateFineCFO(field []complex128) float64

	// DemodTraining demodulates the two long training symbols of a
	// compensated training field into occupied-subcarrier vectors.
	DemodTraining(field []complex128) (sym1, sym2 []complex128)

	// EstimateChannel derives the per-subcarrier channel response from
	// the demodulated training symbols.
	EstimateChannel(sym1, sym2 []complex128) []complex128

	// EstimateNoise derives the noise variance from the demodulated
	// training symbols.
	EstimateNoise(sym1, sym2 []complex128) float64

	// RecoverHeader decodes one aligned symbol into the 24 header bits
	// and reports whether the parity check passed.
	RecoverHeader(symbol, chanEst []complex128, noiseVar, symOffset float64, eq Equalization) (bits []byte, parityOK bool)

	// ClassifyFormat examines the header symbol followed by the first
	// two data symbols and labels the packet format.
	ClassifyFormat(symbols, chanEst []complex128, noiseVar, symOffset float64, eq Equalization) Format

	NewAGC() GainController
	NewDerotator() Derotator
	NewDelayLine() DelayLine
}

// GainController normalizes symbol chunks to a nominal power level. It
// may smooth its gain across calls and must be Reset between packets.
type GainController interface {
	// Apply writes the gain-controlled src into dst (equal lengths).
	Apply(dst, src []complex128)
	Reset()
}

// Derotator applies a frequency rotation e^{j(phase + 2*pi*f*n/fs)}
// with phase continuity across calls. To compensate an estimated
// offset, retune with the negated estimate.
type Derotator interface {
	// Retune sets the rotation frequency in Hz and the phase, in
	// radians, applied to the next sample.
	Retune(freqHz, phase float64)
	// Apply writes the rotated src into dst (equal lengths).
	Apply(dst, src []complex128)
	Reset()
}

// DelayLine realigns a symbol-chunked stream onto boundaries that sit
// delay samples before the chunk grid. It is primed with the delay
// samples left over from acquisition and thereafter produces exactly
// one aligned symbol per input chunk.
type DelayLine interface {
	// Prime sets the realignment delay and seeds the line with the
	// tail samples (len(tail) == delay) preceding the next chunk.
	Prime(delay int, tail []complex128)
	// Shift consumes one chunk and writes the aligned symbol to dst.
	Shift(dst, chunk []complex128)
	Reset()
}

// Package phy implements the receive front end for the legacy (non-HT)
// OFDM PHY: packet acquisition, frequency and timing synchronization,
// header decoding and payload accumulation over a continuous stream of
// complex baseband samples.
//
// The numeric signal-processing operators (detection, CFO estimation,
// demodulation, header recovery and so on) sit behind the FrontEnd
// interface so the state machine is independent of any particular DSP
// implementation; see internal/phy/dsp for the reference one.
package phy

import "fmt"

// Bandwidth selects the channel bandwidth class and with it the sample
// rate of the incoming stream. All legacy clockings use the 64-point
// OFDM numerology, so the symbol length in samples is the same for each;
// only the sample rate differs.
type Bandwidth int

const (
	CBW5 Bandwidth = iota // 5 MHz half-clocked
	CBW10                 // 10 MHz half-clocked
	CBW20                 // 20 MHz
)

// OFDM numerology shared by every legacy bandwidth class.
const (
	FFTLength    = 64
	CyclicPrefix = 16

	// TrainingSymbols is the capacity, in symbols, of the training-field
	// search buffers. Acquisition is abandoned when the search window
	// fills without a timing lock.
	TrainingSymbols = 4

	// MaxPSDULength is the largest value the 12-bit header length field
	// can carry, in octets.
	MaxPSDULength = 4095
)

func (b Bandwidth) String() string {
	switch b {
	case CBW5:
		return "CBW5"
	case CBW10:
		return "CBW10"
	case CBW20:
		return "CBW20"
	}
	return fmt.Sprintf("Bandwidth(%d)", int(b))
}

// SampleRate returns the nominal baseband sample rate in Hz.
func (b Bandwidth) SampleRate() float64 {
	switch b {
	case CBW5:
		return 5e6
	case CBW10:
		return 10e6
	}
	return 20e6
}

// SymbolLength returns the OFDM symbol length in samples.
func (b Bandwidth) SymbolLength() int {
	return FFTLength + CyclicPrefix
}

// Valid reports whether b is a known bandwidth class.
func (b Bandwidth) Valid() bool {
	return b == CBW5 || b == CBW10 || b == CBW20
}

// ParseBandwidth converts a textual bandwidth class ("CBW20" etc, case
// as written) into a Bandwidth value.
func ParseBandwidth(s string) (Bandwidth, error) {
	switch s {
	case "CBW5":
		return CBW5, nil
	case "CBW10":
		return CBW10, nil
	case "CBW20":
		return CBW20, nil
	}
	return 0, fmt.Errorf("unknown bandwidth class %q", s)
}

// Config carries the receiver parameters. It is immutable once a
// Receiver has been built from it.
type Config struct {
	// Bandwidth is the channel bandwidth class of the sample stream.
	Bandwidth Bandwidth

	// TimingThreshold is the normalized correlation level, in [0,1],
	// the symbol-timing estimator must reach to declare a training
	// field found.
	TimingThreshold float64

	// SymbolOffset is the demodulation sampling point expressed as a
	// fraction of the cyclic prefix, in [0,1]. 1.0 samples exactly at
	// the nominal symbol boundary.
	SymbolOffset float64
}

// Validate reports the first configuration error, if any. Configuration
// errors are hard failures: they are rejected here and can never occur
// during streaming.
func (c Config) Validate() error {
	if !c.Bandwidth.Valid() {
		return fmt.Errorf("invalid bandwidth class %d", int(c.Bandwidth))
	}
	if c.TimingThreshold < 0 || c.TimingThreshold > 1 {
		return fmt.Errorf("timing threshold %v outside [0,1]", c.TimingThreshold)
	}
	if c.SymbolOffset < 0 || c.SymbolOffset > 1 {
		return fmt.Errorf("symbol offset %v outside [0,1]", c.SymbolOffset)
	}
	return nil
}

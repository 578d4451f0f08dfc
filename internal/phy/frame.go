package phy

// Modulation identifies the subcarrier constellation of an MCS.
type Modulation int

const (
	BPSK Modulation = iota
	QPSK
	QAM16
	QAM64
)

func (m Modulation) String() string {
	switch m {
	case BPSK:
		return "BPSK"
	case QPSK:
		return "QPSK"
	case QAM16:
		return "16-QAM"
	case QAM64:
		return "64-QAM"
	}
	return "?"
}

// CodeRate is the convolutional code rate of an MCS, expressed as a
// numerator/denominator pair.
type CodeRate struct {
	Num, Den int
}

// MCS describes one modulation and coding scheme of the legacy OFDM PHY.
type MCS struct {
	Modulation Modulation
	Rate       CodeRate
	NBPSC      int // coded bits per subcarrier
	NCBPS      int // coded bits per OFDM symbol
	NDBPS      int // data bits per OFDM symbol
}

// MCSTable lists the eight legacy rates in modulation/coding index
// order (6, 9, 12, 18, 24, 36, 48, 54 Mb/s at 20 MHz).
var MCSTable = [8]MCS{
	{BPSK, CodeRate{1, 2}, 1, 48, 24},
	{BPSK, CodeRate{3, 4}, 1, 48, 36},
	{QPSK, CodeRate{1, 2}, 2, 96, 48},
	{QPSK, CodeRate{3, 4}, 2, 96, 72},
	{QAM16, CodeRate{1, 2}, 4, 192, 96},
	{QAM16, CodeRate{3, 4}, 4, 192, 144},
	{QAM64, CodeRate{2, 3}, 6, 288, 192},
	{QAM64, CodeRate{3, 4}, 6, 288, 216},
}

// FrameParameters are the per-packet parameters derived from a decoded
// header field.
type FrameParameters struct {
	MCSIndex       int // index into MCSTable
	PSDULength     int // payload length in octets
	NumDataSymbols int // OFDM data symbols carrying the payload
}

// ChannelState is the per-packet channel and noise estimate derived
// from the training field. Gains holds one complex gain per occupied
// subcarrier in ascending subcarrier order.
type ChannelState struct {
	Gains    []complex128
	NoiseVar float64
}

// Frame is one decoded packet record. Payload holds the synchronized
// time-domain samples of the data field; Training holds the raw
// (uncompensated) training-field samples captured during acquisition.
type Frame struct {
	ID     string
	Valid  bool
	Params FrameParameters

	Payload  []complex128
	Training []complex128
	Channel  ChannelState

	// Carrier frequency offset estimates applied to this packet, Hz.
	CoarseCFO float64
	FineCFO   float64
}

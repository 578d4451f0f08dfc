package phy

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// receiverState is the mode of the acquisition state machine. Exactly
// one mode is active at a time; buffers belonging to inactive modes
// are stale and are cleared on entry to their mode.
type receiverState int

const (
	stateIdle receiverState = iota // seeking a preamble
	stateAcquiring                 // preamble found, searching for the training field
	stateHeader                    // training field found, decoding the header symbol
	statePayload                   // header valid, accumulating data symbols
)

func (s receiverState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateAcquiring:
		return "AcquiringTiming"
	case stateHeader:
		return "DecodingHeader"
	case statePayload:
		return "BufferingPayload"
	}
	return fmt.Sprintf("receiverState(%d)", int(s))
}

// Receiver is the incremental non-HT packet receiver. It consumes a
// continuous stream of complex baseband samples delivered in
// arbitrarily sized batches and emits one Frame per decoded packet.
//
// A Receiver exclusively owns all of its buffers and collaborator
// state; it is not safe for concurrent use. Chopping one logical
// stream into batches at whole-symbol boundaries does not change the
// decoded output.
type Receiver struct {
	cfg Config
	fe  FrontEnd

	// Stateful sub-collaborators, reset on every return to Idle.
	agc       GainController
	coarseRot Derotator
	fineRot   Derotator
	resyncRot Derotator
	delay     DelayLine

	state receiverState

	// Idle: 2-symbol sliding detection window.
	window *slidingWindow

	// AcquiringTiming: lockstep raw / compensated training buffers.
	trainRaw  *symbolBuffer
	trainComp *symbolBuffer

	// Per-packet estimates.
	coarseCFO    float64
	fineCFO      float64
	timingOffset int
	chanEst      []complex128
	noiseVar     float64
	training     []complex128 // raw training field copy
	params       FrameParameters

	// DecodingHeader / BufferingPayload.
	headerSym []complex128
	payload   []complex128
	collected int

	// Scratch, preallocated at configuration time.
	gained    []complex128
	comp      []complex128
	field     []complex128
	alignedIn []complex128
	aligned   []complex128
	probe     []complex128
}

// New builds a Receiver for cfg driving the given operator front end.
// Configuration errors are hard failures.
func New(cfg Config, fe FrontEnd) (*Receiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("phy: %w", err)
	}
	if fe == nil {
		return nil, fmt.Errorf("phy: nil front end")
	}
	symLen := cfg.Bandwidth.SymbolLength()
	r := &Receiver{
		cfg:       cfg,
		fe:        fe,
		agc:       fe.NewAGC(),
		coarseRot: fe.NewDerotator(),
		fineRot:   fe.NewDerotator(),
		resyncRot: fe.NewDerotator(),
		delay:     fe.NewDelayLine(),
		window:    newSlidingWindow(2, symLen),
		trainRaw:  newSymbolBuffer(TrainingSymbols, symLen),
		trainComp: newSymbolBuffer(TrainingSymbols, symLen),
		training:  make([]complex128, 2*symLen),
		headerSym: make([]complex128, symLen),
		payload:   make([]complex128, maxDataSymbols*symLen),
		gained:    make([]complex128, symLen),
		comp:      make([]complex128, symLen),
		field:     make([]complex128, 2*symLen),
		alignedIn: make([]complex128, symLen),
		aligned:   make([]complex128, symLen),
		probe:     make([]complex128, 3*symLen),
	}
	return r, nil
}

// Config returns the receiver configuration.
func (r *Receiver) Config() Config { return r.cfg }

// State names the current acquisition mode, for observability.
func (r *Receiver) State() string { return r.state.String() }

// Reset returns the receiver to Idle, discarding all in-flight packet
// state. A reset receiver behaves identically to a freshly built one.
func (r *Receiver) Reset() {
	r.toIdle()
	r.window.clear()
}

// Close releases the stateful sub-collaborators. The receiver must not
// be used afterwards.
func (r *Receiver) Close() {
	r.Reset()
	r.agc, r.coarseRot, r.fineRot, r.resyncRot, r.delay = nil, nil, nil, nil, nil
}

// Process runs the receiver over one batch of samples and returns the
// frames completed within it, in sample order. Samples beyond the last
// whole symbol of the batch are discarded (see symbolChunks).
func (r *Receiver) Process(samples []complex128) []Frame {
	var frames []Frame
	for chunk := range symbolChunks(samples, r.cfg.Bandwidth.SymbolLength()) {
		if f, ok := r.processChunk(chunk); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

func (r *Receiver) processChunk(chunk []complex128) (Frame, bool) {
	switch r.state {
	case stateIdle:
		r.seekPreamble(chunk)
	case stateAcquiring:
		r.acquireTiming(chunk)
	case stateHeader:
		r.decodeHeader(chunk)
	case statePayload:
		return r.collectPayload(chunk)
	}
	return Frame{}, false
}

// seekPreamble drives the packet detector over the sliding window. A
// candidate is accepted only when its offset falls within the most
// recent symbol's reach, which guarantees enough trailing preamble is
// already buffered for the coarse CFO estimate.
func (r *Receiver) seekPreamble(chunk []complex128) {
	r.window.push(chunk)
	off, ok := r.fe.DetectPacket(r.window.buf)
	if !ok || off > r.cfg.Bandwidth.SymbolLength() {
		return
	}
	r.coarseCFO = r.fe.EstimateCoarseCFO(r.window.buf[off:])

	// Enter AcquiringTiming: the training buffers and the collaborators
	// feeding them start from scratch.
	r.trainRaw.reset()
	r.trainComp.reset()
	r.agc.Reset()
	r.coarseRot.Reset()
	r.coarseRot.Retune(-r.coarseCFO, 0)
	r.state = stateAcquiring
	debugf("[phy] preamble at offset %d, coarse CFO %.1f Hz", off, r.coarseCFO)
}

// acquireTiming accumulates gain-controlled, coarse-compensated symbols
// alongside their raw counterparts while searching for the training
// field. Acquisition is abandoned once the search buffers fill.
func (r *Receiver) acquireTiming(chunk []complex128) {
	r.agc.Apply(r.gained, chunk)
	r.coarseRot.Apply(r.comp, r.gained)
	r.trainComp.append(r.comp)
	r.trainRaw.append(chunk)

	symLen := r.cfg.Bandwidth.SymbolLength()
	start, ok := r.fe.EstimateSymbolTiming(r.trainComp.span(), r.cfg.TimingThreshold)
	if ok && start+2*symLen <= len(r.trainComp.span()) {
		r.lockTiming(start)
		return
	}
	if r.trainRaw.fill == r.trainRaw.capacity() {
		debugf("[phy] no training field within %d symbols, dropping", TrainingSymbols)
		r.toIdle()
	}
}

// lockTiming extracts the training field at start, derives the
// per-packet estimates and primes the resynchronization path with the
// leftover samples that follow the training field in the buffer.
func (r *Receiver) lockTiming(start int) {
	symLen := r.cfg.Bandwidth.SymbolLength()
	fieldLen := 2 * symLen
	comp := r.trainComp.span()[start : start+fieldLen]
	raw := r.trainRaw.span()[start : start+fieldLen]
	copy(r.training, raw)

	r.fineCFO = r.fe.EstimateFineCFO(comp)

	// Fine derotation, applied per symbol half with phase continuity.
	r.fineRot.Reset()
	r.fineRot.Retune(-r.fineCFO, 0)
	r.fineRot.Apply(r.field[:symLen], comp[:symLen])
	r.fineRot.Apply(r.field[symLen:], comp[symLen:])

	sym1, sym2 := r.fe.DemodTraining(r.field)
	r.chanEst = r.fe.EstimateChannel(sym1, sym2)
	r.noiseVar = r.fe.EstimateNoise(sym1, sym2)

	// Samples left in the buffer past the training field are the head
	// of the first post-training symbol; they seed the delay line.
	leftover := len(r.trainRaw.span()) - (start + fieldLen)
	r.timingOffset = leftover
	r.delay.Reset()
	r.delay.Prime(leftover, r.trainRaw.span()[start+fieldLen:])

	// The resynchronized path carries raw samples, so it is derotated
	// by the full offset estimate. Its phase accumulator is aligned to
	// the first post-training sample: the coarse rotation has advanced
	// since the search buffer began, the fine rotation since the
	// training field began.
	fs := r.cfg.Bandwidth.SampleRate()
	phase := -2 * math.Pi * (r.coarseCFO*float64(start+fieldLen) + r.fineCFO*float64(fieldLen)) / fs
	r.resyncRot.Reset()
	r.resyncRot.Retune(-(r.coarseCFO + r.fineCFO), phase)

	r.state = stateHeader
	debugf("[phy] timing lock at %d, leftover %d, fine CFO %.1f Hz", start, leftover, r.fineCFO)
}

// resync realigns one raw chunk onto the discovered symbol timing and
// applies the frequency compensation.
func (r *Receiver) resync(chunk []complex128) []complex128 {
	r.delay.Shift(r.alignedIn, chunk)
	r.resyncRot.Apply(r.aligned, r.alignedIn)
	return r.aligned
}

// decodeHeader recovers and validates the header from the first
// aligned post-training symbol, then sizes the payload accumulator.
func (r *Receiver) decodeHeader(chunk []complex128) {
	sym := r.resync(chunk)
	copy(r.headerSym, sym) // kept for format verification

	bits, parityOK := r.fe.RecoverHeader(sym, r.chanEst, r.noiseVar, r.cfg.SymbolOffset, EqZeroForcing)
	if !parityOK {
		debugf("[phy] header parity failure, dropping")
		r.toIdle()
		return
	}
	params, err := parseHeader(bits)
	if err != nil {
		debugf("[phy] %v, dropping", err)
		r.toIdle()
		return
	}
	r.params = params
	r.collected = 0
	clearSamples(r.payload[:params.NumDataSymbols*len(chunk)])
	r.state = statePayload
	debugf("[phy] header: mcs %d, %d octets, %d data symbols",
		params.MCSIndex, params.PSDULength, params.NumDataSymbols)
}

// collectPayload appends one aligned data symbol. After the second
// symbol the packet format is verified; a mismatch aborts the packet
// (the header parity check alone can pass on other formats). When the
// data field completes, the frame record is emitted.
func (r *Receiver) collectPayload(chunk []complex128) (Frame, bool) {
	symLen := len(chunk)
	sym := r.resync(chunk)
	copy(r.payload[r.collected*symLen:], sym)
	r.collected++

	if r.collected == 2 && r.params.NumDataSymbols >= 2 {
		copy(r.probe, r.headerSym)
		copy(r.probe[symLen:], r.payload[:2*symLen])
		format := r.fe.ClassifyFormat(r.probe, r.chanEst, r.noiseVar, r.cfg.SymbolOffset, EqZeroForcing)
		if format != FormatNonHT {
			debugf("[phy] format %v, dropping", format)
			r.toIdle()
			return Frame{}, false
		}
	}

	if r.collected < r.params.NumDataSymbols {
		return Frame{}, false
	}
	return r.emit(), true
}

// emit copies the per-packet state into a Frame record and returns the
// machine to Idle. Subsequent chunks in the same batch may immediately
// begin a new detection cycle.
func (r *Receiver) emit() Frame {
	symLen := r.cfg.Bandwidth.SymbolLength()
	f := Frame{
		ID:     uuid.NewString(),
		Valid:  true,
		Params: r.params,
		Payload: append([]complex128(nil),
			r.payload[:r.params.NumDataSymbols*symLen]...),
		Training: append([]complex128(nil), r.training...),
		Channel: ChannelState{
			Gains:    append([]complex128(nil), r.chanEst...),
			NoiseVar: r.noiseVar,
		},
		CoarseCFO: r.coarseCFO,
		FineCFO:   r.fineCFO,
	}
	debugf("[phy] frame %s complete: %d payload samples", f.ID, len(f.Payload))
	r.toIdle()
	return f
}

// toIdle clears all per-packet state and resets the stateful
// sub-collaborators. Every failure path and every emission funnels
// through here, so a soft reset can never leak state into the next
// packet.
func (r *Receiver) toIdle() {
	r.state = stateIdle
	r.window.clear()
	r.trainRaw.reset()
	r.trainComp.reset()
	r.coarseCFO = 0
	r.fineCFO = 0
	r.timingOffset = 0
	r.chanEst = nil
	r.noiseVar = 0
	r.params = FrameParameters{}
	r.collected = 0
	clearSamples(r.training)
	clearSamples(r.headerSym)
	r.agc.Reset()
	r.coarseRot.Reset()
	r.fineRot.Reset()
	r.resyncRot.Reset()
	r.delay.Reset()
}

func clearSamples(s []complex128) {
	for i := range s {
		s[i] = 0
	}
}

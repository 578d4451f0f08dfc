package phy

import "iter"

// symbolChunks returns a lazy, restartable sequence over the full
// symbol-length chunks of batch. Samples beyond the last full chunk are
// not visited: batch remainders are discarded rather than carried into
// the next call, so cross-call determinism holds for streams delivered
// in whole-symbol batches.
func symbolChunks(batch []complex128, symLen int) iter.Seq[[]complex128] {
	return func(yield func([]complex128) bool) {
		for off := 0; off+symLen <= len(batch); off += symLen {
			if !yield(batch[off : off+symLen]) {
				return
			}
		}
	}
}

// slidingWindow keeps the most recent n*symLen samples of the stream,
// shifting left by one symbol and appending on every push.
type slidingWindow struct {
	buf    []complex128
	symLen int
}

func newSlidingWindow(symbols, symLen int) *slidingWindow {
	return &slidingWindow{
		buf:    make([]complex128, symbols*symLen),
		symLen: symLen,
	}
}

func (w *slidingWindow) push(chunk []complex128) {
	copy(w.buf, w.buf[w.symLen:])
	copy(w.buf[len(w.buf)-w.symLen:], chunk)
}

func (w *slidingWindow) clear() {
	for i := range w.buf {
		w.buf[i] = 0
	}
}

// symbolBuffer accumulates whole symbols up to a fixed capacity. The
// receiver keeps two in lockstep during acquisition: raw samples and
// frequency-compensated samples.
type symbolBuffer struct {
	buf    []complex128
	symLen int
	fill   int // symbols currently held
}

func newSymbolBuffer(capacity, symLen int) *symbolBuffer {
	return &symbolBuffer{
		buf:    make([]complex128, capacity*symLen),
		symLen: symLen,
	}
}

func (b *symbolBuffer) capacity() int { return len(b.buf) / b.symLen }

// append stores chunk in the next free symbol slot. Appending to a full
// buffer is a bookkeeping bug upstream; it is ignored here.
func (b *symbolBuffer) append(chunk []complex128) {
	if b.fill >= b.capacity() {
		return
	}
	copy(b.buf[b.fill*b.symLen:], chunk)
	b.fill++
}

// span returns the filled prefix of the buffer.
func (b *symbolBuffer) span() []complex128 {
	return b.buf[:b.fill*b.symLen]
}

func (b *symbolBuffer) reset() {
	b.fill = 0
}

package dsp

// delayLine realigns a symbol-chunked stream onto boundaries sitting a
// fixed number of samples before the chunk grid. It holds the trailing
// delay samples of the previous chunk; each Shift emits those followed
// by the head of the new chunk, then retains the new tail.
type delayLine struct {
	held []complex128
}

func (d *delayLine) Prime(delay int, tail []complex128) {
	d.held = append(d.held[:0], tail[:delay]...)
}

func (d *delayLine) Shift(dst, chunk []complex128) {
	k := len(d.held)
	copy(dst, d.held)
	copy(dst[k:], chunk[:len(chunk)-k])
	d.held = append(d.held[:0], chunk[len(chunk)-k:]...)
}

func (d *delayLine) Reset() {
	d.held = d.held[:0]
}

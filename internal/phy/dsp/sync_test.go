package dsp

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/softradio/nonht/internal/phy"
	"github.com/softradio/nonht/internal/testutil"
)

// applyCFO rotates samples by freqHz, phase zero at index 0.
func applyCFO(samples []complex128, freqHz, fs float64) []complex128 {
	out := make([]complex128, len(samples))
	for n, v := range samples {
		out[n] = v * cmplx.Exp(complex(0, 2*math.Pi*freqHz*float64(n)/fs))
	}
	return out
}

func addNoise(samples []complex128, sigma float64, seed uint64) []complex128 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]complex128, len(samples))
	s := sigma / math.Sqrt2
	for i, v := range samples {
		out[i] = v + complex(rng.NormFloat64()*s, rng.NormFloat64()*s)
	}
	return out
}

func TestDetectPacketFindsPreamble(t *testing.T) {
	fe := New(phy.CBW20)
	stf := LSTF()

	for _, offset := range []int{0, 7, 40, 80} {
		window := make([]complex128, 160)
		copy(window[offset:], stf)
		got, ok := fe.DetectPacket(addNoise(window, 0.05, 42))
		if !ok {
			t.Fatalf("offset %d: no detection", offset)
		}
		// The metric crosses threshold slightly before the true start
		// where the correlation window partially overlaps the preamble.
		if got < offset-10 || got > offset+2 {
			t.Errorf("offset %d: detected at %d", offset, got)
		}
	}
}

func TestDetectPacketRejectsNoise(t *testing.T) {
	fe := New(phy.CBW20)
	noise := addNoise(make([]complex128, 160), 1, 99)
	if _, ok := fe.DetectPacket(noise); ok {
		t.Error("detected a packet in pure noise")
	}
}

func TestEstimateCoarseCFO(t *testing.T) {
	fe := New(phy.CBW20)
	fs := phy.CBW20.SampleRate()
	for _, cfo := range []float64{0, 12e3, -80e3, 300e3} {
		window := applyCFO(LSTF(), cfo, fs)
		got := fe.EstimateCoarseCFO(window)
		testutil.AssertFloatClose(t, got, cfo, 100)
	}
}

func TestEstimateFineCFO(t *testing.T) {
	fe := New(phy.CBW20)
	fs := phy.CBW20.SampleRate()
	for _, cfo := range []float64{0, 900, -4e3} {
		field := applyCFO(LLTF(), cfo, fs)
		got := fe.EstimateFineCFO(field)
		testutil.AssertFloatClose(t, got, cfo, 20)
	}
}

func TestEstimateSymbolTiming(t *testing.T) {
	fe := New(phy.CBW20)
	ltf := LLTF()

	for _, offset := range []int{0, 33, 120} {
		buf := make([]complex128, 320)
		copy(buf[offset:], ltf)
		got, ok := fe.EstimateSymbolTiming(addNoise(buf, 0.05, 7), 0.5)
		if !ok {
			t.Fatalf("offset %d: no lock", offset)
		}
		if got != offset {
			t.Errorf("offset %d: locked at %d", offset, got)
		}
	}
}

func TestEstimateSymbolTimingBelowThreshold(t *testing.T) {
	fe := New(phy.CBW20)
	noise := addNoise(make([]complex128, 320), 1, 21)
	if _, ok := fe.EstimateSymbolTiming(noise, 0.5); ok {
		t.Error("locked onto pure noise")
	}
}

func TestAGCNormalizesPower(t *testing.T) {
	fe := New(phy.CBW20)
	agc := fe.NewAGC()

	src := make([]complex128, 80)
	for i := range src {
		src[i] = complex(3, -3)
	}
	dst := make([]complex128, 80)
	for i := 0; i < 4; i++ {
		agc.Apply(dst, src)
	}

	var power float64
	for _, v := range dst {
		power += real(v)*real(v) + imag(v)*imag(v)
	}
	testutil.AssertFloatClose(t, power/80, 1, 1e-9)
}

func TestDerotatorCancelsCFO(t *testing.T) {
	fe := New(phy.CBW20)
	fs := phy.CBW20.SampleRate()
	const cfo = 50e3

	src := make([]complex128, 160)
	for i := range src {
		src[i] = 1
	}
	rotated := applyCFO(src, cfo, fs)

	d := fe.NewDerotator()
	d.Retune(-cfo, 0)
	out := make([]complex128, 160)

	// Two applies must behave like one continuous stream.
	d.Apply(out[:80], rotated[:80])
	d.Apply(out[80:], rotated[80:])
	testutil.AssertSliceClose(t, out, src, 1e-9)
}

func TestDerotatorInitialPhase(t *testing.T) {
	fe := New(phy.CBW20)
	d := fe.NewDerotator()
	d.Retune(0, math.Pi/2)

	out := make([]complex128, 4)
	d.Apply(out, []complex128{1, 1, 1, 1})
	for _, v := range out {
		testutil.AssertClose(t, v, complex(0, 1), 1e-12)
	}
}

func TestDelayLineRealignment(t *testing.T) {
	fe := New(phy.CBW20)
	dl := fe.NewDelayLine()

	// Stream 0..239 chunked at 80 with the symbol grid 30 samples
	// behind the chunk grid.
	stream := make([]complex128, 240)
	for i := range stream {
		stream[i] = complex(float64(i), 0)
	}
	dl.Prime(30, stream[50:80])

	out := make([]complex128, 80)
	dl.Shift(out, stream[80:160])
	testutil.AssertSliceClose(t, out, stream[50:130], 0)

	dl.Shift(out, stream[160:240])
	testutil.AssertSliceClose(t, out, stream[130:210], 0)
}

func TestDelayLineZeroDelay(t *testing.T) {
	fe := New(phy.CBW20)
	dl := fe.NewDelayLine()
	dl.Prime(0, nil)

	chunk := []complex128{1, 2, 3, 4}
	out := make([]complex128, 4)
	dl.Shift(out, chunk)
	testutil.AssertSliceClose(t, out, chunk, 0)
}

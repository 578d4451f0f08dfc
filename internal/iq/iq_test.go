package iq

import (
	"bytes"
	"testing"

	"github.com/softradio/nonht/internal/testutil"
)

func TestCF32RoundTrip(t *testing.T) {
	samples := []complex128{0.25 - 0.5i, 1, -1i, 0}

	var buf bytes.Buffer
	testutil.AssertNoError(t, Write(&buf, CF32, samples))
	if buf.Len() != 8*len(samples) {
		t.Fatalf("%d bytes, want %d", buf.Len(), 8*len(samples))
	}

	got, err := Read(&buf, CF32)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceClose(t, got, samples, 1e-7)
}

func TestCS16RoundTrip(t *testing.T) {
	samples := []complex128{0.5 - 0.25i, -1, 0.999i}

	var buf bytes.Buffer
	testutil.AssertNoError(t, Write(&buf, CS16, samples))
	if buf.Len() != 4*len(samples) {
		t.Fatalf("%d bytes, want %d", buf.Len(), 4*len(samples))
	}

	got, err := Read(&buf, CS16)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceClose(t, got, samples, 1e-4)
}

func TestCS16Clamps(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertNoError(t, Write(&buf, CS16, []complex128{3 - 3i}))
	got, err := Read(&buf, CS16)
	testutil.AssertNoError(t, err)
	testutil.AssertClose(t, got[0], complex(1, -32768.0/32767), 1e-4)
}

func TestReadRejectsPartialSample(t *testing.T) {
	_, err := Read(bytes.NewReader(make([]byte, 7)), CF32)
	testutil.AssertError(t, err)
	_, err = Read(bytes.NewReader(make([]byte, 6)), CS16)
	testutil.AssertError(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"cf32", "cs16"} {
		f, err := ParseFormat(name)
		testutil.AssertNoError(t, err)
		if f.String() != name {
			t.Errorf("format %q round-trips as %q", name, f.String())
		}
	}
	_, err := ParseFormat("wav")
	testutil.AssertError(t, err)
}

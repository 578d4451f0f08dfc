package phy

import "testing"

func headerBitsFor(rate, length int) []byte {
	bits := make([]byte, 24)
	for i := 0; i < 3; i++ {
		bits[i] = byte(rate>>(2-i)) & 1
	}
	bits[3] = 1
	for i := 0; i < 12; i++ {
		bits[5+i] = byte(length>>i) & 1
	}
	for _, b := range bits[:17] {
		bits[17] ^= b
	}
	return bits
}

func TestParseHeader(t *testing.T) {
	cases := []struct {
		rate, length string
		bitsRate     int
		bitsLength   int
		wantMCS      int
		wantNsym     int
	}{
		{"bpsk 1/2", "100 octets", 6, 100, 0, 35},
		{"bpsk 3/4", "1 octet", 7, 1, 1, 1},
		{"qpsk 1/2", "64 octets", 2, 64, 2, 12},
		{"qam64 3/4", "max length", 1, 4095, 7, 152},
	}
	for _, tc := range cases {
		t.Run(tc.rate+" "+tc.length, func(t *testing.T) {
			got, err := parseHeader(headerBitsFor(tc.bitsRate, tc.bitsLength))
			if err != nil {
				t.Fatal(err)
			}
			if got.MCSIndex != tc.wantMCS {
				t.Errorf("mcs = %d, want %d", got.MCSIndex, tc.wantMCS)
			}
			if got.PSDULength != tc.bitsLength {
				t.Errorf("length = %d, want %d", got.PSDULength, tc.bitsLength)
			}
			if got.NumDataSymbols != tc.wantNsym {
				t.Errorf("symbols = %d, want %d", got.NumDataSymbols, tc.wantNsym)
			}
		})
	}
}

func TestParseHeaderZeroLength(t *testing.T) {
	if _, err := parseHeader(headerBitsFor(6, 0)); err == nil {
		t.Error("zero length accepted")
	}
}

func TestParseHeaderTruncated(t *testing.T) {
	if _, err := parseHeader(make([]byte, 12)); err == nil {
		t.Error("truncated bits accepted")
	}
}

func TestRateFieldInverse(t *testing.T) {
	for mcs := 0; mcs < len(MCSTable); mcs++ {
		if got := rateIndex(RateField(mcs)); got != mcs {
			t.Errorf("mcs %d encodes to field %d which decodes to %d", mcs, RateField(mcs), got)
		}
	}
}

func TestMaxDataSymbols(t *testing.T) {
	// The slowest rate with the longest payload bounds every legal
	// header request.
	want := (8*4095 + 16 + 6 + 23) / 24
	if maxDataSymbols != want {
		t.Errorf("maxDataSymbols = %d, want %d", maxDataSymbols, want)
	}
}

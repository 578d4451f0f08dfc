// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"
)

// closeComplex reports whether got and want agree within tol. A NaN in
// either value makes the distance NaN, which never satisfies the
// tolerance, so NaN always fails.
func closeComplex(got, want complex128, tol float64) bool {
	return cmplx.Abs(got-want) <= tol
}

// closeFloat is closeComplex for real values, with the same NaN
// behavior.
func closeFloat(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertClose checks that two complex values agree within tol.
func AssertClose(t *testing.T, got, want complex128, tol float64) {
	t.Helper()
	if !closeComplex(got, want, tol) {
		t.Errorf("got %v, want %v (tol %v)", got, want, tol)
	}
}

// AssertSliceClose checks that two complex slices agree elementwise
// within tol.
func AssertSliceClose(t *testing.T, got, want []complex128, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !closeComplex(got[i], want[i], tol) {
			t.Fatalf("index %d: got %v, want %v (tol %v)", i, got[i], want[i], tol)
		}
	}
}

// AssertFloatClose checks that two floats agree within tol.
func AssertFloatClose(t *testing.T, got, want, tol float64) {
	t.Helper()
	if !closeFloat(got, want, tol) {
		t.Errorf("got %v, want %v (tol %v)", got, want, tol)
	}
}

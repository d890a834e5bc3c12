package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func AssertTrue(t *testing.T, a bool) {
	t.Helper()
	if !a {
		t.Fatalf("Expected true, got false")
	}
}

func AssertClose(t *testing.T, got, want, eps float64) {
	t.Helper()
	if !cmp.Equal(got, want, cmpopts.EquateApprox(0, eps)) {
		t.Fatalf("Expected %v to be within %v of %v", got, eps, want)
	}
}

// AssertFloatsClose compares two columns element-wise with an absolute margin.
func AssertFloatsClose(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, eps)); diff != "" {
		t.Fatalf("Columns differ (-want +got):\n%s", diff)
	}
}

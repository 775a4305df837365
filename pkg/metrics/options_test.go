package metrics

import "testing"

func TestLinearBuckets(t *testing.T) {
	got := LinearBuckets(10, 5, 4)
	want := []float64{10, 15, 20, 25}
	if len(got) != len(want) {
		t.Fatalf("LinearBuckets returned %d buckets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket[%d] = %g, want %g", i, got[i], want[i])
		}
	}
	if LinearBuckets(1, 1, 0) != nil {
		t.Error("LinearBuckets with count 0 should return nil")
	}
}

func TestExponentialBuckets(t *testing.T) {
	got := ExponentialBuckets(1, 10, 4)
	want := []float64{1, 10, 100, 1000}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestValidateBuckets(t *testing.T) {
	tests := []struct {
		name    string
		buckets []float64
		wantErr bool
	}{
		{"sorted", []float64{0.1, 0.5, 1}, false},
		{"empty", nil, false},
		{"single", []float64{1}, false},
		{"unsorted", []float64{1, 0.5}, true},
		{"duplicate", []float64{1, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuckets(tt.buckets)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateBuckets(%v) succeeded, want error", tt.buckets)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateBuckets(%v) failed: %v", tt.buckets, err)
			}
		})
	}
}

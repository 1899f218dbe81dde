package fitness

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"single", []float64{7}, 7},
		{"odd", []float64{1, 2, 3, 4, 5}, 3},
		{"odd unsorted", []float64{5, 3, 1, 4, 2}, 3},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"even pair", []float64{2, 4}, 3},
		{"duplicates", []float64{2, 2, 2, 9}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Median(tt.values)
			if err != nil {
				t.Fatalf("Median: %v", err)
			}
			if got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedian_Empty(t *testing.T) {
	_, err := Median(nil)
	if !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Median(nil) error = %v, want ErrEmptySequence", err)
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	if _, err := Median(values); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{3, 1, 2}, values); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

package usecase

import (
	"slices"
	"testing"
)

func TestLockOrder(t *testing.T) {
	tests := []struct {
		in   []int64
		want []int64
	}{
		{in: []int64{2, 1}, want: []int64{1, 2}},
		{in: []int64{1, 2}, want: []int64{1, 2}},
		{in: []int64{5, 5}, want: []int64{5}},
		{in: []int64{-3, 9, 0}, want: []int64{-3, 0, 9}},
	}

	for _, tt := range tests {
		in := slices.Clone(tt.in)
		got := lockOrder(in...)
		if !slices.Equal(got, tt.want) {
			t.Errorf("lockOrder(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if !slices.Equal(in, tt.in) {
			t.Errorf("lockOrder mutated its input: %v", in)
		}
	}
}

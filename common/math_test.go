package common

import "testing"

func TestLerpAndClamp(t *testing.T) {
	if got := Lerp(2, 6, 0.25); got != 3 {
		t.Fatalf("Lerp = %v", got)
	}
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

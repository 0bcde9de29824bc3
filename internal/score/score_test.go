package score

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{250, 100},
		{math.NaN(), 0},
		{math.Inf(1), 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLimit(t *testing.T) {
	if got := Limit(15, 10); got != 10 {
		t.Errorf("Limit(15,10) = %v", got)
	}
	if got := Limit(-15, 10); got != -10 {
		t.Errorf("Limit(-15,10) = %v", got)
	}
	if got := Limit(3, 10); got != 3 {
		t.Errorf("Limit(3,10) = %v", got)
	}
}

func TestPer_GuardsZero(t *testing.T) {
	if got := Per(10, 0); got != 10 {
		t.Errorf("Per(10,0) = %v, want 10", got)
	}
	if got := Per(10, 4); got != 2.5 {
		t.Errorf("Per(10,4) = %v, want 2.5", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean(); got != 0 {
		t.Errorf("Mean() = %v", got)
	}
	if got := Mean(10, 20, 30, 40); got != 25 {
		t.Errorf("Mean = %v, want 25", got)
	}
}

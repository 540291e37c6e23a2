package util

import "testing"

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(1.5); got != "1.5000" {
		t.Fatalf("unexpected price %q", got)
	}
}

func TestFormatRiskReward(t *testing.T) {
	if got := FormatRiskReward(10, 4); got != "1:2.50" {
		t.Fatalf("unexpected ratio %q", got)
	}
	if got := FormatRiskReward(10, 0); got != "1:1" {
		t.Fatalf("expected 1:1 on zero risk, got %q", got)
	}
	if got := FormatRiskReward(-10, -4); got != "1:2.50" {
		t.Fatalf("expected magnitudes, got %q", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.4, -1, 1); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := Clamp(-2, -1, 1); got != -1 {
		t.Fatalf("expected clamp to -1, got %v", got)
	}
	if got := Clamp(0.5, -1, 1); got != 0.5 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

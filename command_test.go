package ui

import "testing"

func TestBarrierConstructors(t *testing.T) {
	if b := NoBarrier(); b.Class != BarrierNone || b.SamplesScene() {
		t.Errorf("NoBarrier() = %+v", b)
	}

	if b := GlobalBarrier(); b.Class != BarrierGlobal || !b.SamplesScene() {
		t.Errorf("GlobalBarrier() = %+v", b)
	}

	if b := PaddedBarrier(8); b.Class != BarrierPaddedLocal || b.Padding != 8 {
		t.Errorf("PaddedBarrier(8) = %+v", b)
	}

	// Negative padding is clamped to zero.
	if b := PaddedBarrier(-1); b.Padding != 0 {
		t.Errorf("PaddedBarrier(-1).Padding = %d, want 0", b.Padding)
	}

	region := Rect{10, 10, 50, 50}
	if b := RegionBarrier(region); b.Class != BarrierAbsolute || b.Region != region {
		t.Errorf("RegionBarrier = %+v", b)
	}
}

func TestBarrierClassString(t *testing.T) {
	tests := []struct {
		class BarrierClass
		want  string
	}{
		{BarrierNone, "None"},
		{BarrierGlobal, "Global"},
		{BarrierPaddedLocal, "PaddedLocal"},
		{BarrierAbsolute, "Absolute"},
		{BarrierClass(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("BarrierClass(%d).String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestCommandPhaseString(t *testing.T) {
	if got := PhaseDraw.String(); got != "Draw" {
		t.Errorf("PhaseDraw.String() = %q", got)
	}
	if got := PhaseCompute.String(); got != "Compute" {
		t.Errorf("PhaseCompute.String() = %q", got)
	}
	if got := CommandPhase(7).String(); got != "Unknown" {
		t.Errorf("CommandPhase(7).String() = %q", got)
	}
}

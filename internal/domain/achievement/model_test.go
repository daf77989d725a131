package achievement

import "testing"

func intPtr(v int) *int { return &v }

func TestEffectivePointsPrefersOwnValue(t *testing.T) {
	t.Parallel()

	a := Achievement{PointValue: intPtr(3), ParentPointValue: intPtr(7)}
	if got := a.EffectivePoints(); got != 3 {
		t.Fatalf("EffectivePoints = %d, want 3", got)
	}
}

func TestEffectivePointsInheritsFromParent(t *testing.T) {
	t.Parallel()

	a := Achievement{ParentPointValue: intPtr(7)}
	if got := a.EffectivePoints(); got != 7 {
		t.Fatalf("EffectivePoints = %d, want 7", got)
	}
}

func TestEffectivePointsDefaultsToZero(t *testing.T) {
	t.Parallel()

	if got := (Achievement{}).EffectivePoints(); got != 0 {
		t.Fatalf("EffectivePoints = %d, want 0", got)
	}
}

func TestWinColorsSlug(t *testing.T) {
	t.Parallel()

	if got := WinColorsSlug(2); got != "win-2-colors" {
		t.Fatalf("WinColorsSlug(2) = %s", got)
	}
	if got := WinColorsSlug(0); got != "win-0-colors" {
		t.Fatalf("WinColorsSlug(0) = %s", got)
	}
}

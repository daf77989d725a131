package color

import "testing"

func TestCombineMasksIsAdditive(t *testing.T) {
	t.Parallel()

	if got := CombineMasks(MaskGreen, MaskRed); got != 24 {
		t.Fatalf("green|red = %d, want 24", got)
	}
	if got := CombineMasks(MaskWhite, MaskWhite); got != MaskWhite {
		t.Fatalf("white|white = %d, want %d", got, MaskWhite)
	}
	if got := CombineMasks(); got != MaskColorless {
		t.Fatalf("empty combination = %d, want colorless", got)
	}
}

func TestCountColors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mask int
		want int
	}{
		{MaskColorless, 0},
		{MaskWhite, 1},
		{MaskGreen | MaskRed, 2},
		{MaskWhite | MaskBlue | MaskBlack, 3},
		{MaskWhite | MaskBlue | MaskBlack | MaskRed | MaskGreen, 5},
	}

	for _, tc := range cases {
		if got := CountColors(tc.mask); got != tc.want {
			t.Fatalf("CountColors(%d) = %d, want %d", tc.mask, got, tc.want)
		}
	}
}

package pods

import (
	"fmt"
	"testing"
)

func TestSizePlanExamples(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    int
		want []int
	}{
		{3, []int{3}},
		{4, []int{4}},
		{5, []int{5}},
		{6, []int{3, 3}},
		{7, []int{4, 3}},
		{8, []int{4, 4}},
		{9, []int{4, 5}},
		{10, []int{4, 3, 3}},
		{11, []int{4, 4, 3}},
		{12, []int{4, 4, 4}},
		{13, []int{4, 4, 5}},
		{17, []int{4, 4, 4, 5}},
	}

	for _, tc := range cases {
		got, err := SizePlan(tc.n)
		if err != nil {
			t.Fatalf("SizePlan(%d): %v", tc.n, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("SizePlan(%d) = %v, want %v", tc.n, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("SizePlan(%d) = %v, want %v", tc.n, got, tc.want)
			}
		}
	}
}

func TestSizePlanRejectsTooFew(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2} {
		if _, err := SizePlan(n); err != ErrTooFewParticipants {
			t.Fatalf("SizePlan(%d): expected ErrTooFewParticipants, got %v", n, err)
		}
	}
}

func TestSizePlanInvariants(t *testing.T) {
	t.Parallel()

	for n := 3; n <= 200; n++ {
		sizes, err := SizePlan(n)
		if err != nil {
			t.Fatalf("SizePlan(%d): %v", n, err)
		}

		total := 0
		threes := 0
		fives := 0
		for _, size := range sizes {
			if size < MinPodSize || size > MaxPodSize {
				t.Fatalf("SizePlan(%d) produced pod of size %d", n, size)
			}
			total += size
			switch size {
			case 3:
				threes++
			case 5:
				fives++
			}
		}

		if total != n {
			t.Fatalf("SizePlan(%d) sizes sum to %d", n, total)
		}
		if threes > 2 {
			t.Fatalf("SizePlan(%d) produced %d pods of size 3", n, threes)
		}
		if fives > 1 {
			t.Fatalf("SizePlan(%d) produced %d pods of size 5", n, fives)
		}
	}
}

func TestPartitionCoversInputExactly(t *testing.T) {
	t.Parallel()

	for n := 3; n <= 60; n++ {
		ids := make([]string, 0, n)
		for i := 0; i < n; i++ {
			ids = append(ids, fmt.Sprintf("p%03d", i))
		}

		groups, err := Partition(ids)
		if err != nil {
			t.Fatalf("Partition(%d): %v", n, err)
		}

		seen := make(map[string]int)
		for _, group := range groups {
			for _, id := range group {
				seen[id]++
			}
		}
		if len(seen) != n {
			t.Fatalf("Partition(%d) covered %d distinct ids", n, len(seen))
		}
		for id, count := range seen {
			if count != 1 {
				t.Fatalf("Partition(%d) seated %s %d times", n, id, count)
			}
		}
	}
}

func TestPartitionKeepsFrontInFours(t *testing.T) {
	t.Parallel()

	// 9 participants: the top 4 of the ordering stay together, the
	// 5-pod takes the tail.
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	groups, err := Partition(ids)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("expected 2 pods, got %d", len(groups))
	}
	if len(groups[0]) != 4 || len(groups[1]) != 5 {
		t.Fatalf("unexpected sizes: %d, %d", len(groups[0]), len(groups[1]))
	}
	for i, id := range []string{"a", "b", "c", "d"} {
		if groups[0][i] != id {
			t.Fatalf("front pod should hold the sequence head, got %v", groups[0])
		}
	}
}

func TestRemoved(t *testing.T) {
	t.Parallel()

	previous := []string{"a", "b", "c", "d"}
	next := []string{"b", "d", "e"}

	got := Removed(previous, next)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected removed set: %v", got)
	}

	if out := Removed(previous, previous); out != nil {
		t.Fatalf("identical rosters should remove nobody, got %v", out)
	}
}

package pods

import "errors"

// MinPodSize and MaxPodSize bound steady-state pod membership. Pods of
// exactly 2 are never produced.
const (
	MinPodSize       = 3
	PreferredPodSize = 4
	MaxPodSize       = 5
)

var ErrTooFewParticipants = errors.New("at least 3 participants are required to form a pod")

// SizePlan returns the pod sizes for n participants, front of the
// ordering first. Pods of 4 lead; the remainder groups (one 5, two 3s,
// or one 3 depending on n mod 4) sit at the end, so with a
// points-ordered input the adjusted-size pods land at the bottom of the
// standings.
func SizePlan(n int) ([]int, error) {
	if n < MinPodSize {
		return nil, ErrTooFewParticipants
	}

	switch n % PreferredPodSize {
	case 0:
		return repeatSizes(n/4, 4), nil
	case 1:
		return append(repeatSizes((n-5)/4, 4), 5), nil
	case 2:
		return append(repeatSizes((n-6)/4, 4), 3, 3), nil
	default:
		return append(repeatSizes((n-3)/4, 4), 3), nil
	}
}

// Partition splits an ordered participant sequence into pods following
// SizePlan. The front of the sequence fills the pods of 4; the tail
// fills the remainder groups.
func Partition(participantIDs []string) ([][]string, error) {
	sizes, err := SizePlan(len(participantIDs))
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(sizes))
	next := 0
	for _, size := range sizes {
		out = append(out, append([]string(nil), participantIDs[next:next+size]...))
		next += size
	}

	return out, nil
}

// Removed returns the ids present in previous but absent from next,
// preserving the order of previous. Used by reroll to revoke the
// participation grants of participants dropped from a round.
func Removed(previous, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, id := range next {
		keep[id] = struct{}{}
	}

	var out []string
	for _, id := range previous {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func repeatSizes(count, size int) []int {
	out := make([]int, 0, count+2)
	for i := 0; i < count; i++ {
		out = append(out, size)
	}
	return out
}

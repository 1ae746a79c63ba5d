package geometry

import "math"

// ClosestPoint returns the candidate nearest to query.
// ok is false when candidates is empty. Ties keep the first candidate.
func ClosestPoint(query Point, candidates []Point) (closest Point, ok bool) {
	best := math.Inf(1)
	for _, c := range candidates {
		if d := SquaredDistance(query, c); d < best {
			best = d
			closest = c
			ok = true
		}
	}
	return closest, ok
}

// LineScore is the endpoint-order-sensitive distance used by ClosestLine:
// the squared distance between the first endpoints plus the squared distance
// between the second endpoints.
func LineScore(candidate, ref Line) float64 {
	return SquaredDistance(candidate.P1, ref.P1) + SquaredDistance(candidate.P2, ref.P2)
}

// ClosestLine returns the candidate with the lowest LineScore against ref.
// ok is false when candidates is empty. Ties keep the first candidate.
func ClosestLine(candidates []Line, ref Line) (closest Line, ok bool) {
	best := math.Inf(1)
	for _, c := range candidates {
		if d := LineScore(c, ref); d < best {
			best = d
			closest = c
			ok = true
		}
	}
	return closest, ok
}

package physics

// Pair indexes two bodies in the step's ordered body list, A < B.
type Pair struct {
	A, B int
}

// BroadPhase finds the pairs of bodies whose world AABBs overlap. The bodies
// slice is in insertion order with AABBs already updated for this step.
// Implementations append to out and must emit pairs in a deterministic order.
type BroadPhase interface {
	Pairs(bodies []*Body, out []Pair) []Pair
}

// NaiveBroadPhase tests every pair of bodies. Pairs of two static bodies are
// skipped.
type NaiveBroadPhase struct{}

// Pairs implements BroadPhase.
func (NaiveBroadPhase) Pairs(bodies []*Body, out []Pair) []Pair {
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if a.typ == Static && b.typ == Static {
				continue
			}
			if a.aabb.Intersects(b.aabb) {
				out = append(out, Pair{A: i, B: j})
			}
		}
	}
	return out
}

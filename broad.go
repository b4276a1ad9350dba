package bounce

import (
	"fmt"
	"sort"
)

// A Pair references two distinct particles by their index in the swarm, I < J.
type Pair struct {
	I int
	J int
}

// newPair orders the indices of a pair.
func newPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// A BroadPhase selects the pairs of particles that may be colliding.
// It must return every pair whose bounding boxes overlap and may return
// pairs that do not. The returned slice is only valid until the next call.
type BroadPhase interface {
	Pairs(swarm []Particle) []Pair
}

// NewBroadPhase returns the broad phase registered under name:
// "sap" for sweep and prune or "naive" for all pairs.
func NewBroadPhase(name string) (BroadPhase, error) {
	switch name {
	case "sap", "":
		return new(SweepAndPrune), nil
	case "naive":
		return new(AllPairs), nil
	default:
		return nil, fmt.Errorf("bounce: bad broad phase %q", name)
	}
}

// AllPairs is the naive broad phase returning every pair of particles.
type AllPairs struct {
	pairs []Pair
}

// Pairs returns all n(n-1)/2 pairs.
func (a *AllPairs) Pairs(swarm []Particle) []Pair {
	a.pairs = a.pairs[:0]
	for i := range swarm {
		for j := i + 1; j < len(swarm); j++ {
			a.pairs = append(a.pairs, Pair{I: i, J: j})
		}
	}
	return a.pairs
}

// SweepAndPrune sorts particles along the x axis and only pairs particles
// whose horizontal extents overlap. The zero value is ready to use.
// Buffers are reused between calls so a SweepAndPrune must not be shared
// by simulations stepped concurrently.
type SweepAndPrune struct {
	order  []int  // indices sorted by left edge
	active []int  // indices whose right edge has not been passed yet
	pairs  []Pair // output buffer
}

// Pairs returns the pairs of particles overlapping on the x axis.
func (s *SweepAndPrune) Pairs(swarm []Particle) []Pair {
	s.pairs = s.pairs[:0]
	s.active = s.active[:0]
	s.order = s.order[:0]
	for i := range swarm {
		s.order = append(s.order, i)
	}
	sort.Sort(byLeft{order: s.order, swarm: swarm})

	for _, i := range s.order {
		left := swarm[i].Pos.X - swarm[i].Radius

		// prune particles ending before this one starts
		n := 0
		for _, j := range s.active {
			if swarm[j].Pos.X+swarm[j].Radius >= left {
				s.active[n] = j
				n++
			}
		}
		s.active = s.active[:n]

		for _, j := range s.active {
			s.pairs = append(s.pairs, newPair(i, j))
		}
		s.active = append(s.active, i)
	}
	return s.pairs
}

// byLeft is a wrapper to sort particle indices by the left edge of their bounding box.
type byLeft struct {
	order []int
	swarm []Particle
}

// Len returns the length of the slice.
func (b byLeft) Len() int {
	return len(b.order)
}

// Less compares the left edges of two particles.
func (b byLeft) Less(i, j int) bool {
	p, q := &b.swarm[b.order[i]], &b.swarm[b.order[j]]
	return p.Pos.X-p.Radius < q.Pos.X-q.Radius
}

// Swap swaps two indices.
func (b byLeft) Swap(i, j int) {
	b.order[i], b.order[j] = b.order[j], b.order[i]
}

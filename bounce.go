// Package bounce runs elastic-collision simulations of circular particles.
//
// A fixed number of disks move in a 2D rectangular frame under a constant
// acceleration. They bounce off the frame and off each other. Each step
// integrates the motion, reflects velocities at the frame, gathers candidate
// pairs with a broad phase and resolves the pairs that actually touch.
//
// Pairs sharing a particle are resolved one after the other within a step,
// so the last pair wins. This is not an exact simultaneous multi-body solve.
package bounce

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNegativeStep is returned when stepping with a negative or NaN time step.
	ErrNegativeStep = errors.New("bounce: time step must be non-negative")

	// ErrRadius is returned for a particle whose radius is not positive.
	ErrRadius = errors.New("bounce: radius must be positive")

	// ErrMass is returned for a particle whose mass is not positive.
	ErrMass = errors.New("bounce: mass must be positive")

	// ErrDuplicateID is returned when two particles share an identity.
	ErrDuplicateID = errors.New("bounce: duplicate particle id")

	// ErrFrame is returned for an empty frame.
	ErrFrame = errors.New("bounce: frame must satisfy left < right and top < bottom")

	// ErrDegenerate is returned by Collide for two touching particles with
	// coincident centers, for which no collision normal exists.
	ErrDegenerate = errors.New("bounce: coincident particle centers")
)

// A Frame is the axis-aligned rectangle containing the particles.
// The y axis grows downward so Top < Bottom.
type Frame struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// DefaultFrame is a 560 units wide square border inset by 20 units
// in a 600×600 window.
var DefaultFrame = Frame{Left: 20, Right: 580, Top: 20, Bottom: 580}

// Validate returns ErrFrame if the frame is empty.
func (f Frame) Validate() error {
	if !(f.Left < f.Right) || !(f.Top < f.Bottom) {
		return fmt.Errorf("%w (got %+v)", ErrFrame, f)
	}
	return nil
}

// Events counts what happened during one or more steps.
type Events struct {
	Walls      int // velocity components reflected by the frame
	Candidates int // pairs returned by the broad phase
	Contacts   int // pairs resolved by the narrow phase
	Degenerate int // touching pairs skipped because their centers coincide
}

// Add returns the sum of two counts.
func (e Events) Add(f Events) Events {
	return Events{
		Walls:      e.Walls + f.Walls,
		Candidates: e.Candidates + f.Candidates,
		Contacts:   e.Contacts + f.Contacts,
		Degenerate: e.Degenerate + f.Degenerate,
	}
}

// A Simulation contains all the state and parameters of a simulation.
type Simulation struct {
	Swarm []Particle
	Frame Frame
	Broad BroadPhase
}

// New validates the frame and the particles and returns a simulation that
// owns swarm. A nil broad phase defaults to sweep and prune.
func New(frame Frame, swarm []Particle, broad BroadPhase) (*Simulation, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(swarm))
	for i := range swarm {
		if err := swarm[i].validate(); err != nil {
			return nil, err
		}
		if seen[swarm[i].ID] {
			return nil, fmt.Errorf("%w %d", ErrDuplicateID, swarm[i].ID)
		}
		seen[swarm[i].ID] = true
	}
	if broad == nil {
		broad = new(SweepAndPrune)
	}
	return &Simulation{Swarm: swarm, Frame: frame, Broad: broad}, nil
}

// Step runs a single simulation step of duration dt.
// A zero dt moves nothing but still reflects particles touching the frame
// and resolves pairs already in contact.
func (s *Simulation) Step(dt float64) (Events, error) {
	var ev Events
	if !(dt >= 0) {
		return ev, fmt.Errorf("%w (got %g)", ErrNegativeStep, dt)
	}

	for i := range s.Swarm {
		s.Swarm[i].Integrate(dt)
		ev.Walls += s.Swarm[i].Reflect(s.Frame)
	}

	pairs := s.Broad.Pairs(s.Swarm)
	ev.Candidates = len(pairs)
	for _, c := range pairs {
		hit, err := Collide(&s.Swarm[c.I], &s.Swarm[c.J])
		switch {
		case errors.Is(err, ErrDegenerate):
			ev.Degenerate++
		case hit:
			ev.Contacts++
		}
	}
	return ev, nil
}

// Run performs steps simulation steps of duration dt. If fn is not nil it is
// called after every step with the step index and its events.
// It returns the accumulated events.
func (s *Simulation) Run(dt float64, steps int, fn func(k int, ev Events)) (Events, error) {
	var total Events
	for k := 0; k < steps; k++ {
		ev, err := s.Step(dt)
		if err != nil {
			return total, err
		}
		total = total.Add(ev)
		if fn != nil {
			fn(k, ev)
		}
	}
	return total, nil
}

// Momentum returns the total linear momentum of the swarm.
func (s *Simulation) Momentum() Vec2 {
	var m Vec2
	for i := range s.Swarm {
		m = m.Add(s.Swarm[i].Momentum())
	}
	return m
}

// Energy returns the total kinetic energy of the swarm.
func (s *Simulation) Energy() float64 {
	var e float64
	for i := range s.Swarm {
		e += s.Swarm[i].Energy()
	}
	return e
}

// MaxSpeed returns the largest particle speed, or 0 for an empty swarm.
func (s *Simulation) MaxSpeed() float64 {
	var v float64
	for i := range s.Swarm {
		v = math.Max(v, s.Swarm[i].Vel.Norm())
	}
	return v
}

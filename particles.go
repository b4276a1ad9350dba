package bounce

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// State contains the mutable state of a particle.
type State struct {
	Pos Vec2 // position
	Vel Vec2 // velocity
}

// Parameters contains the parameters of a particle, fixed at creation.
type Parameters struct {
	Acc    Vec2    // constant acceleration (e.g. gravity)
	Radius float64 // radius of the disk
	Mass   float64 // areal mass π·r²
}

// A Particle is a disk with an identity, a state and parameters.
type Particle struct {
	ID int
	State
	Parameters
}

// NewParticle returns a particle whose mass is derived from its radius.
func NewParticle(id int, pos, vel, acc Vec2, radius float64) (Particle, error) {
	p := Particle{
		ID:    id,
		State: State{Pos: pos, Vel: vel},
		Parameters: Parameters{
			Acc:    acc,
			Radius: radius,
			Mass:   math.Pi * radius * radius,
		},
	}
	if err := p.validate(); err != nil {
		return Particle{}, err
	}
	return p, nil
}

// validate checks the invariants of a particle built by hand.
func (p *Particle) validate() error {
	if !(p.Radius > 0) || math.IsInf(p.Radius, 1) {
		return fmt.Errorf("particle %d: %w (got %g)", p.ID, ErrRadius, p.Radius)
	}
	if !(p.Mass > 0) {
		return fmt.Errorf("particle %d: %w (got %g)", p.ID, ErrMass, p.Mass)
	}
	return nil
}

// Integrate advances the particle by dt with explicit Euler steps,
// velocity first then position.
func (p *Particle) Integrate(dt float64) {
	p.Vel = p.Vel.Add(p.Acc.Scale(dt))
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
}

// Bounds returns the axis-aligned bounding box of the particle.
func (p *Particle) Bounds() r2.Box {
	r := p.Radius
	return r2.Box{
		Min: r2.Vec{X: p.Pos.X - r, Y: p.Pos.Y - r},
		Max: r2.Vec{X: p.Pos.X + r, Y: p.Pos.Y + r},
	}
}

// Reflect negates the velocity components of a particle whose bounding box
// touches or crosses the frame, at most once per axis. The position is left
// as is, so the particle may overlap the border until the next step.
// It returns the number of components that were negated.
func (p *Particle) Reflect(f Frame) int {
	b := p.Bounds()
	n := 0
	if b.Min.X <= f.Left || b.Max.X >= f.Right {
		p.Vel.X = -p.Vel.X
		n++
	}
	if b.Min.Y <= f.Top || b.Max.Y >= f.Bottom {
		p.Vel.Y = -p.Vel.Y
		n++
	}
	return n
}

// Momentum returns m·v.
func (p *Particle) Momentum() Vec2 {
	return p.Vel.Scale(p.Mass)
}

// Energy returns the kinetic energy ½·m·|v|².
func (p *Particle) Energy() float64 {
	return 0.5 * p.Mass * p.Vel.Norm2()
}

// Package school generates initial particle populations inside a frame.
package school

import (
	"fmt"
	"math"

	"github.com/corvus96/bounce"
	"golang.org/x/exp/rand"
)

// maxTries is the number of rejected positions tolerated per particle.
const maxTries = 1000

// Params contains the parameters shared by all generated particles.
type Params struct {
	Size    int         // number of particles (lattice: upper bound, 0 for no bound)
	Radius  float64     // radius of every particle
	Speed   float64     // initial speed, direction is uniform
	Acc     bounce.Vec2 // constant acceleration
	Spacing float64     // lattice spacing between neighbors, more than 2·Radius
}

// Random places p.Size particles uniformly inside the frame without
// overlapping each other or the frame. IDs are 0 to p.Size-1.
func Random(rnd *rand.Rand, f bounce.Frame, p Params) ([]bounce.Particle, error) {
	s := make([]bounce.Particle, 0, p.Size)
	if err := Reset(rnd, f, p, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset draws new random positions and directions for a population of
// p.Size particles, reusing the memory of s.
func Reset(rnd *rand.Rand, f bounce.Frame, p Params, s *[]bounce.Particle) error {
	r := p.Radius
	w, h := f.Right-f.Left-2*r, f.Bottom-f.Top-2*r
	if !(w > 0 && h > 0) {
		return fmt.Errorf("school: radius %g does not fit in frame %+v", r, f)
	}

	*s = (*s)[:0]
	for i := 0; i < p.Size; i++ {
		var pos bounce.Vec2
		tries := 0
		for {
			pos = bounce.Vec2{
				X: f.Left + r + w*rnd.Float64(),
				Y: f.Top + r + h*rnd.Float64(),
			}
			if free(*s, pos, r) {
				break
			}
			if tries++; tries == maxTries {
				return fmt.Errorf("school: cannot place particle %d of %d without overlap", i+1, p.Size)
			}
		}
		q, err := bounce.NewParticle(i, pos, velocity(rnd, p.Speed), p.Acc, r)
		if err != nil {
			return err
		}
		*s = append(*s, q)
	}
	return nil
}

// Lattice places particles on a hexagonal lattice filling the frame
// with random directions. The number of particles is defined by the
// geometry, capped by p.Size when positive.
func Lattice(rnd *rand.Rand, f bounce.Frame, p Params) ([]bounce.Particle, error) {
	r := p.Radius
	dx := p.Spacing
	if !(dx > 2*r) {
		return nil, fmt.Errorf("school: lattice spacing %g must exceed the diameter %g", dx, 2*r)
	}
	dy := dx * math.Sqrt(3) / 2

	var s []bounce.Particle
	odd := false
	for y := f.Top + dx/2; y+r < f.Bottom; y += dy {
		x0 := f.Left + dx/2
		if odd {
			x0 += dx / 2
		}
		for x := x0; x+r < f.Right; x += dx {
			if p.Size > 0 && len(s) == p.Size {
				return s, nil
			}
			q, err := bounce.NewParticle(len(s), bounce.Vec2{X: x, Y: y}, velocity(rnd, p.Speed), p.Acc, r)
			if err != nil {
				return nil, err
			}
			s = append(s, q)
		}
		odd = !odd
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("school: no lattice site fits in frame %+v", f)
	}
	return s, nil
}

// free returns whether a disk of radius r at pos overlaps none of s.
func free(s []bounce.Particle, pos bounce.Vec2, r float64) bool {
	for i := range s {
		d := s[i].Radius + r
		if s[i].Pos.Sub(pos).Norm2() <= d*d {
			return false
		}
	}
	return true
}

// velocity returns a vector of norm speed with a uniform random direction.
func velocity(rnd *rand.Rand, speed float64) bounce.Vec2 {
	sin, cos := math.Sincos(2 * math.Pi * rnd.Float64())
	return bounce.Vec2{X: speed * cos, Y: speed * sin}
}

package bounce

// Epsilon is the squared center distance under which two touching
// particles are considered coincident.
const Epsilon = 1e-12

// Collide resolves a perfectly elastic collision between two disks.
// If p and q are distinct and their centers are within the sum of their radii,
// both velocities are replaced using the pre-collision state and true is
// returned. Otherwise the particles are left untouched.
// Coincident centers give ErrDegenerate and no update.
func Collide(p, q *Particle) (bool, error) {
	if p.ID == q.ID {
		return false, nil
	}
	dx := p.Pos.Sub(q.Pos)
	d2 := dx.Norm2()
	r := p.Radius + q.Radius
	if d2 > r*r {
		return false, nil
	}
	if d2 <= Epsilon {
		return false, ErrDegenerate
	}

	// impulse along the line of centers; (v2-v1)·(x2-x1) equals (v1-v2)·(x1-x2)
	dv := p.Vel.Sub(q.Vel)
	k := dv.Dot(dx) / d2
	m := p.Mass + q.Mass
	p.Vel = p.Vel.Sub(dx.Scale(2 * q.Mass / m * k))
	q.Vel = q.Vel.Add(dx.Scale(2 * p.Mass / m * k))
	return true, nil
}

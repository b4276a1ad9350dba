package bounce

import "gonum.org/v1/gonum/spatial/r2"

// A Vec2 is a simple 2D vector.
type Vec2 r2.Vec

// Add returns the vector sum u+v.
func (u Vec2) Add(v Vec2) Vec2 {
	return Vec2(r2.Add(r2.Vec(u), r2.Vec(v)))
}

// Sub returns the vector difference u-v.
func (u Vec2) Sub(v Vec2) Vec2 {
	return Vec2(r2.Sub(r2.Vec(u), r2.Vec(v)))
}

// Scale returns u scaled by f.
func (u Vec2) Scale(f float64) Vec2 {
	return Vec2(r2.Scale(f, r2.Vec(u)))
}

// Dot returns the dot product u·v.
func (u Vec2) Dot(v Vec2) float64 {
	return r2.Dot(r2.Vec(u), r2.Vec(v))
}

// Norm returns the Euclidean norm of u.
func (u Vec2) Norm() float64 {
	return r2.Norm(r2.Vec(u))
}

// Norm2 returns the squared Euclidean norm of u.
func (u Vec2) Norm2() float64 {
	return r2.Norm2(r2.Vec(u))
}

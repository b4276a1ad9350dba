package bounce

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func approxVec(u, v Vec2) bool {
	return approx(u.X, v.X) && approx(u.Y, v.Y)
}

func mustParticle(t testing.TB, id int, pos, vel Vec2, radius float64) Particle {
	t.Helper()
	p, err := NewParticle(id, pos, vel, Vec2{}, radius)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestVec2(t *testing.T) {
	u, v := Vec2{X: 3, Y: 4}, Vec2{X: -1, Y: 2}
	if got := u.Add(v); got != (Vec2{X: 2, Y: 6}) {
		t.Errorf("Add = %v", got)
	}
	if got := u.Sub(v); got != (Vec2{X: 4, Y: 2}) {
		t.Errorf("Sub = %v", got)
	}
	if got := u.Scale(-2); got != (Vec2{X: -6, Y: -8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := u.Dot(v); got != 5 {
		t.Errorf("Dot = %v", got)
	}
	if got := u.Norm(); got != 5 {
		t.Errorf("Norm = %v", got)
	}
	if got := u.Norm2(); got != 25 {
		t.Errorf("Norm2 = %v", got)
	}
}

func TestNewParticle(t *testing.T) {
	p, err := NewParticle(7, Vec2{X: 1, Y: 2}, Vec2{X: 3, Y: 4}, Vec2{Y: 9.8}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 7 || !approx(p.Mass, 4*math.Pi) {
		t.Errorf("got id %d mass %g", p.ID, p.Mass)
	}

	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewParticle(1, Vec2{}, Vec2{}, Vec2{}, r); !errors.Is(err, ErrRadius) {
			t.Errorf("radius %g: got error %v, want ErrRadius", r, err)
		}
	}
}

func TestIntegrate(t *testing.T) {
	p, err := NewParticle(1, Vec2{X: 10, Y: 20}, Vec2{X: 1, Y: -2}, Vec2{Y: 10}, 1)
	if err != nil {
		t.Fatal(err)
	}

	q := p
	q.Integrate(0)
	if q.State != p.State {
		t.Errorf("dt=0 changed state: %+v -> %+v", p.State, q.State)
	}

	q.Integrate(0.5)
	if want := (Vec2{X: 1, Y: 3}); !approxVec(q.Vel, want) {
		t.Errorf("vel = %v, want %v", q.Vel, want)
	}
	if want := (Vec2{X: 10.5, Y: 21.5}); !approxVec(q.Pos, want) {
		t.Errorf("pos = %v, want %v", q.Pos, want)
	}
	if q.Acc != p.Acc {
		t.Errorf("acceleration changed")
	}
}

func TestBounds(t *testing.T) {
	p := mustParticle(t, 1, Vec2{X: 5, Y: -2}, Vec2{}, 3)
	b := p.Bounds()
	if b.Min.X != 2 || b.Max.X != 8 || b.Min.Y != -5 || b.Max.Y != 1 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestReflect(t *testing.T) {
	f := Frame{Left: 0, Right: 100, Top: 0, Bottom: 50}
	vel := Vec2{X: 2, Y: 3}
	tests := []struct {
		name string
		pos  Vec2
		want Vec2
		n    int
	}{
		{"inside", Vec2{X: 50, Y: 25}, vel, 0},
		{"touch left", Vec2{X: 5, Y: 25}, Vec2{X: -2, Y: 3}, 1},
		{"touch right", Vec2{X: 95, Y: 25}, Vec2{X: -2, Y: 3}, 1},
		{"touch top", Vec2{X: 50, Y: 5}, Vec2{X: 2, Y: -3}, 1},
		{"touch bottom", Vec2{X: 50, Y: 45}, Vec2{X: 2, Y: -3}, 1},
		{"past right", Vec2{X: 120, Y: 25}, Vec2{X: -2, Y: 3}, 1},
		{"corner", Vec2{X: 95, Y: 45}, Vec2{X: -2, Y: -3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParticle(t, 1, tt.pos, vel, 5)
			if n := p.Reflect(f); n != tt.n {
				t.Errorf("reflected %d components, want %d", n, tt.n)
			}
			if p.Vel != tt.want {
				t.Errorf("vel = %v, want %v", p.Vel, tt.want)
			}
			if p.Pos != tt.pos {
				t.Errorf("position moved to %v", p.Pos)
			}
		})
	}
}

func TestReflectStraddlingBothSides(t *testing.T) {
	// a particle touching left and right at once still flips only once
	p := mustParticle(t, 1, Vec2{X: 50, Y: 25}, Vec2{X: 2, Y: 3}, 60)
	if n := p.Reflect(Frame{Left: 0, Right: 100, Top: -100, Bottom: 100}); n != 1 {
		t.Errorf("reflected %d components, want 1", n)
	}
	if p.Vel.X != -2 {
		t.Errorf("vel.X = %g, want -2", p.Vel.X)
	}
}

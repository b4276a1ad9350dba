package hdf5

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/corvus96/bounce"
)

func newSim(t *testing.T) *bounce.Simulation {
	t.Helper()
	var swarm []bounce.Particle
	for i, x := range []float64{100, 160, 300} {
		p, err := bounce.NewParticle(i+1, bounce.Vec2{X: x, Y: 200}, bounce.Vec2{X: 5, Y: -1}, bounce.Vec2{Y: 2}, 10+float64(i))
		if err != nil {
			t.Fatal(err)
		}
		swarm = append(swarm, p)
	}
	s, err := bounce.New(bounce.DefaultFrame, swarm, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunAndLoad(t *testing.T) {
	s := newSim(t)
	out := filepath.Join(t.TempDir(), "sub", "run.h5")

	const steps = 4
	var ev bounce.Events
	var frames [][]bounce.Particle
	attrs := struct {
		Dt    float64
		Steps int
		Broad string
		Skip  []int
	}{0.5, steps, "sap", []int{1}}

	err := Run(s, &Config{
		Output:   out,
		Steps:    steps,
		Datasets: []*Dataset{Particles(len(s.Swarm)), Events(&ev)},
		Attrs:    &attrs,
		Step: func() error {
			frames = append(frames, append([]bounce.Particle(nil), s.Swarm...))
			var err error
			ev, err = s.Step(0.5)
			return err
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(out, "particles")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	if l.Frames() != steps || l.Size() != len(s.Swarm) {
		t.Fatalf("loader has %d frames of %d particles", l.Frames(), l.Size())
	}
	var got []bounce.Particle
	for k := 0; k < steps+1; k++ {
		if err := l.Load(&got); err != nil {
			t.Fatal(err)
		}
		want := frames[k%steps]
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("frame %d particle %d: got %+v, want %+v", k, i, got[i], want[i])
			}
		}
	}
}

func TestRunStepError(t *testing.T) {
	s := newSim(t)
	boom := errors.New("boom")
	err := Run(s, &Config{
		Output:   filepath.Join(t.TempDir(), "run.h5"),
		Steps:    3,
		Datasets: []*Dataset{Particles(len(s.Swarm))},
		Step:     func() error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestRunNoSteps(t *testing.T) {
	if err := Run(newSim(t), &Config{Output: filepath.Join(t.TempDir(), "x.h5")}); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestLoaderMissing(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "missing.h5"), "particles"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRecord(t *testing.T) {
	p, err := bounce.NewParticle(42, bounce.Vec2{X: 1, Y: 2}, bounce.Vec2{X: 3, Y: 4}, bounce.Vec2{Y: -1}, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	q, err := NewRecord(&p).Particle()
	if err != nil {
		t.Fatal(err)
	}
	if p != q {
		t.Errorf("got %+v, want %+v", q, p)
	}

	r := NewRecord(&p)
	r.Radius = 0
	if _, err := r.Particle(); !errors.Is(err, bounce.ErrRadius) {
		t.Errorf("got %v, want ErrRadius", err)
	}
}

func TestLoadBadRecord(t *testing.T) {
	s := newSim(t)
	out := filepath.Join(t.TempDir(), "bad.h5")
	good := NewRecord(&s.Swarm[0])
	bad := NewRecord(&s.Swarm[1])
	bad.Radius = -1
	recs := []Record{good, bad}
	err := Run(s, &Config{
		Output: out,
		Steps:  1,
		Datasets: []*Dataset{{
			Name: "particles",
			Val:  Record{},
			Dims: []int{len(recs)},
			Data: func(*bounce.Simulation) interface{} { return &recs },
		}},
		Step: func() error { return nil },
	})
	if err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(out, "particles")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	swarm := append([]bounce.Particle(nil), s.Swarm...)
	if err := l.Load(&swarm); !errors.Is(err, bounce.ErrRadius) {
		t.Fatalf("got %v, want ErrRadius", err)
	}
	if len(swarm) != len(s.Swarm) {
		t.Fatalf("swarm has %d particles, want %d", len(swarm), len(s.Swarm))
	}
	for i := range swarm {
		if swarm[i] != s.Swarm[i] {
			t.Errorf("particle %d changed to %+v", i, swarm[i])
		}
	}
}

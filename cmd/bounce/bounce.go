// Command bounce runs elastic-collision simulations of disks in a frame.
//
// Usage
//
// The bounce command takes one optional argument:
//  bounce [config_file]
// It is the path to a TOML config file.
// If no config file is specified, a simulation with default
// parameters runs headless and prints a summary.
//
// Config file
//
// The config file is written in TOML. Keys match the fields of Config,
// case insensitively. Explicit particles are given as an array of tables:
//  school = "list"
//  [[particle]]
//  x = 100
//  y = 300
//  vx = 10
//  radius = 40
//
// Known bugs
//
// Collisions sharing a particle within one step are resolved one after the
// other, so three or more disks touching at once do not conserve energy
// exactly as a simultaneous solve would.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/corvus96/bounce"
	"github.com/corvus96/bounce/hdf5"
	"github.com/corvus96/bounce/school"
	"golang.org/x/exp/rand"
)

const usage = `Usage: bounce [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, a simulation with default parameters
runs without output file and prints a summary.
`

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		c := *DefaultConf
		conf = &c
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	// setup simulation
	sim, err := setup(conf)
	if err != nil {
		Fatal(err)
	}

	// record or not depending on config
	if conf.Output == "" {
		err = runHeadless(conf, sim)
	} else {
		err = runHDF5(conf, sim)
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// newRand returns the PRNG seeded from the config.
// A zero seed is replaced by a time based one, written back to conf
// so that it is saved with the output.
func newRand(conf *Config) *rand.Rand {
	if conf.Seed == 0 {
		conf.Seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(conf.Seed))
}

// setup initializes the state and parameters of all particles.
func setup(conf *Config) (*bounce.Simulation, error) {
	broad, err := bounce.NewBroadPhase(conf.Broad)
	if err != nil {
		return nil, err
	}

	params := school.Params{
		Size:    conf.SwarmSize,
		Radius:  conf.Radius,
		Speed:   conf.Speed,
		Acc:     bounce.Vec2{Y: conf.Gravity},
		Spacing: conf.Spacing,
	}

	var swarm []bounce.Particle
	switch conf.School {
	case "random":
		swarm, err = school.Random(newRand(conf), conf.Frame(), params)
	case "lattice":
		swarm, err = school.Lattice(newRand(conf), conf.Frame(), params)
	case "data":
		swarm, err = load(conf.DataPath)
	case "list":
		swarm, err = list(conf.Particle)
	default:
		err = fmt.Errorf("bad school %q", conf.School)
	}
	if err != nil {
		return nil, err
	}

	return bounce.New(conf.Frame(), swarm, broad)
}

// load reads the first frame of a particles dataset.
func load(path string) (s []bounce.Particle, err error) {
	l, err := hdf5.NewLoader(path, "particles")
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := l.Close(); err == nil {
			err = cerr
		}
	}()
	err = l.Load(&s)
	return s, err
}

// list builds the particles listed in the config file.
func list(ps []ParticleConfig) ([]bounce.Particle, error) {
	s := make([]bounce.Particle, len(ps))
	for i, c := range ps {
		p, err := bounce.NewParticle(c.ID,
			bounce.Vec2{X: c.X, Y: c.Y},
			bounce.Vec2{X: c.VX, Y: c.VY},
			bounce.Vec2{X: c.AX, Y: c.AY},
			c.Radius)
		if err != nil {
			return nil, fmt.Errorf("particle #%d: %w", i+1, err)
		}
		s[i] = p
	}
	return s, nil
}

// runHDF5 runs the simulation and saves every step to an HDF5 file.
func runHDF5(conf *Config, sim *bounce.Simulation) error {
	var ev, total bounce.Events
	err := hdf5.Run(sim, &hdf5.Config{
		Output: conf.Output,
		Steps:  conf.Steps,
		Attrs:  conf,
		Datasets: []*hdf5.Dataset{
			hdf5.Particles(len(sim.Swarm)),
			hdf5.Events(&ev),
		},
		Step: func() error {
			var err error
			ev, err = sim.Step(conf.Dt)
			total = total.Add(ev)
			return err
		},
	})
	if err != nil {
		return err
	}
	summary(sim, total)
	return nil
}

// runHeadless runs the simulation without recording it.
func runHeadless(conf *Config, sim *bounce.Simulation) error {
	p0, e0 := sim.Momentum(), sim.Energy()
	fmt.Printf("%d particles, momentum (%.4g, %.4g), energy %.6g\n", len(sim.Swarm), p0.X, p0.Y, e0)
	total, err := sim.Run(conf.Dt, conf.Steps, func(k int, _ bounce.Events) {
		// show progress as percentage
		fmt.Printf("\r% 3d%%", 100*k/conf.Steps)
	})
	fmt.Printf("\r100%%\n")
	if err != nil {
		return err
	}
	summary(sim, total)
	return nil
}

// summary prints the totals of a run.
func summary(sim *bounce.Simulation, total bounce.Events) {
	p := sim.Momentum()
	fmt.Printf("walls %d, candidates %d, contacts %d, degenerate %d\n",
		total.Walls, total.Candidates, total.Contacts, total.Degenerate)
	fmt.Printf("momentum (%.4g, %.4g), energy %.6g, max speed %.4g\n",
		p.X, p.Y, sim.Energy(), sim.MaxSpeed())
}

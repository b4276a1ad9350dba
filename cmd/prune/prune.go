// Command prune measures the efficiency of the broad phase.
//
// Usage
//
// The prune command takes one optional argument:
//  prune [config_file]
// It is the path to a TOML config file.
//
// For every replicate, a static population is drawn (or loaded) and the
// number of candidate pairs returned by sweep and prune is compared with
// the number of pairs of the naive broad phase, the number of pairs whose
// bounding boxes overlap and the number of pairs actually in contact.
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

const usage = `Usage: prune [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, a study with default parameters
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

	st, err := setup(conf)
	if err != nil {
		Fatal(err)
	}
	defer st.close()

	if conf.Output == "" {
		err = st.run()
	} else {
		err = st.runHDF5()
	}
	if err != nil {
		st.close()
		Fatal(err)
	}
	st.summary()
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// A Count is what is recorded in the HDF5 file for each replicate.
type Count struct {
	SweepAndPrune int64 // candidate pairs of sweep and prune
	AllPairs      int64 // candidate pairs of the naive broad phase
	Overlaps      int64 // pairs whose bounding boxes overlap
	Contacts      int64 // pairs within the sum of their radii
}

// A study holds the population and the counters of a pruning study.
type study struct {
	conf   *Config
	sim    *bounce.Simulation
	rnd    *rand.Rand
	loader *hdf5.Loader
	params school.Params

	sap   bounce.SweepAndPrune
	naive bounce.AllPairs

	total Count
	n     int // number of measured replicates
}

// setup draws or loads the first population.
// A zero seed in conf is replaced by the time based seed actually used.
func setup(conf *Config) (*study, error) {
	if conf.Seed == 0 {
		conf.Seed = uint64(time.Now().UnixNano())
	}
	st := &study{
		conf: conf,
		rnd:  rand.New(rand.NewSource(conf.Seed)),
		params: school.Params{
			Size:    conf.SwarmSize,
			Radius:  conf.Radius,
			Spacing: conf.Spacing,
		},
	}

	var swarm []bounce.Particle
	var err error
	switch conf.School {
	case "random":
		swarm, err = school.Random(st.rnd, conf.Frame(), st.params)
	case "lattice":
		swarm, err = school.Lattice(st.rnd, conf.Frame(), st.params)
	case "data":
		st.loader, err = hdf5.NewLoader(conf.DataPath, "particles")
		if err == nil {
			err = st.loader.Load(&swarm)
		}
	default:
		err = fmt.Errorf("bad school %q", conf.School)
	}
	if err != nil {
		st.close()
		return nil, err
	}

	st.sim, err = bounce.New(conf.Frame(), swarm, &st.sap)
	if err != nil {
		st.close()
		return nil, err
	}
	return st, nil
}

// reset replaces the population by the next replicate.
func (st *study) reset() error {
	var err error
	switch st.conf.School {
	case "random":
		err = school.Reset(st.rnd, st.conf.Frame(), st.params, &st.sim.Swarm)
	case "lattice":
		st.sim.Swarm, err = school.Lattice(st.rnd, st.conf.Frame(), st.params)
	case "data":
		err = st.loader.Load(&st.sim.Swarm)
	}
	return err
}

// next draws the next replicate, or does nothing once
// every replicate has been measured.
func (st *study) next() error {
	if st.n >= st.conf.Replicates {
		return nil
	}
	return st.reset()
}

// measure counts the pairs of the current population.
func (st *study) measure() Count {
	s := st.sim.Swarm
	all := st.naive.Pairs(s)
	c := Count{
		SweepAndPrune: int64(len(st.sap.Pairs(s))),
		AllPairs:      int64(len(all)),
	}
	for _, p := range all {
		a, b := &s[p.I], &s[p.J]
		if overlap(a, b) {
			c.Overlaps++
		}
		d := a.Radius + b.Radius
		if a.Pos.Sub(b.Pos).Norm2() <= d*d {
			c.Contacts++
		}
	}

	st.total.SweepAndPrune += c.SweepAndPrune
	st.total.AllPairs += c.AllPairs
	st.total.Overlaps += c.Overlaps
	st.total.Contacts += c.Contacts
	st.n++
	return c
}

// overlap reports whether the bounding boxes of two particles intersect.
func overlap(p, q *bounce.Particle) bool {
	a, b := p.Bounds(), q.Bounds()
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// run measures every replicate without recording.
func (st *study) run() error {
	for k := 0; k < st.conf.Replicates; k++ {
		// show progress as percentage
		fmt.Printf("\r% 3d%%", 100*k/st.conf.Replicates)

		st.measure()
		if err := st.next(); err != nil {
			return err
		}
	}
	fmt.Printf("\r100%%\n")
	return nil
}

// runHDF5 measures every replicate and saves populations and counts to an HDF5 file.
func (st *study) runHDF5() error {
	var c Count
	return hdf5.Run(st.sim, &hdf5.Config{
		Output: st.conf.Output,
		Steps:  st.conf.Replicates,
		Step:   st.next,
		Attrs:  st.conf,
		Datasets: []*hdf5.Dataset{
			hdf5.Particles(len(st.sim.Swarm)),
			{
				Name: "pruning",
				Val:  Count{},
				Data: func(*bounce.Simulation) interface{} {
					c = st.measure()
					return &c
				},
			},
		},
	})
}

// summary prints the mean counts per replicate.
func (st *study) summary() {
	if st.n == 0 {
		return
	}
	n := float64(st.n)
	fmt.Printf("%d replicates of %d particles\n", st.n, len(st.sim.Swarm))
	fmt.Printf("mean pairs: naive %.1f, sweep and prune %.1f, box overlaps %.1f, contacts %.1f\n",
		float64(st.total.AllPairs)/n, float64(st.total.SweepAndPrune)/n,
		float64(st.total.Overlaps)/n, float64(st.total.Contacts)/n)
	if st.total.AllPairs > 0 {
		fmt.Printf("sweep and prune keeps %.2f%% of all pairs\n",
			100*float64(st.total.SweepAndPrune)/float64(st.total.AllPairs))
	}
}

// close releases the loader if any.
func (st *study) close() {
	if st.loader != nil {
		st.loader.Close()
		st.loader = nil
	}
}

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/corvus96/bounce"
)

// Config holds the various parameters required for running a pruning study.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string to only print a summary.
	Output string

	Replicates int    // number of replicates
	Seed       uint64 // seed of the PRNG, 0 for a time based seed

	// Frame parameters
	Left   float64 // unit: px
	Right  float64 // unit: px
	Top    float64 // unit: px
	Bottom float64 // unit: px

	// School parameters
	School    string  // possible values: random, lattice, data
	SwarmSize int     // number of particles (random, lattice)
	Radius    float64 // unit: px (random, lattice)
	Spacing   float64 // unit: px (lattice)
	DataPath  string  // must be HDF5 file containing a particles dataset
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:     "",
	Replicates: 100,
	Left:       bounce.DefaultFrame.Left,
	Right:      bounce.DefaultFrame.Right,
	Top:        bounce.DefaultFrame.Top,
	Bottom:     bounce.DefaultFrame.Bottom,
	School:     "random",
	SwarmSize:  300,
	Radius:     5,
	Spacing:    25,
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := *DefaultConf
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, keys[0].String())
	}
	return &conf, conf.Validate()
}

// Frame returns the frame described by the config.
func (c *Config) Frame() bounce.Frame {
	return bounce.Frame{Left: c.Left, Right: c.Right, Top: c.Top, Bottom: c.Bottom}
}

// Validate checks the parameters.
func (c *Config) Validate() error {
	if c.Replicates <= 0 {
		return fmt.Errorf("bad replicates %d", c.Replicates)
	}
	if err := c.Frame().Validate(); err != nil {
		return err
	}
	switch c.School {
	case "random", "lattice":
		if !(c.Radius > 0) {
			return fmt.Errorf("bad radius %g", c.Radius)
		}
	case "data":
		if c.DataPath == "" {
			return fmt.Errorf("school %q requires a data path", c.School)
		}
	default:
		return fmt.Errorf("bad school %q", c.School)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/corvus96/bounce"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for a headless run printing a summary.
	Output string

	Steps int     // number of time steps
	Dt    float64 // duration of time steps
	Seed  uint64  // seed of the PRNG, 0 for a time based seed
	Broad string  // possible values: sap, naive

	// Frame parameters
	Left   float64 // unit: px
	Right  float64 // unit: px
	Top    float64 // unit: px
	Bottom float64 // unit: px

	// Population parameters
	School    string  // possible values: random, lattice, data, list
	SwarmSize int     // number of particles (random, lattice)
	Radius    float64 // unit: px (random, lattice)
	Speed     float64 // unit: px/time (random, lattice)
	Gravity   float64 // unit: px/time² (random, lattice), positive is downward
	Spacing   float64 // unit: px (lattice)
	DataPath  string  // HDF5 file containing a particles dataset (data)

	// Particle lists the particles of a "list" school.
	Particle []ParticleConfig
}

// ParticleConfig describes a single particle in the config file.
type ParticleConfig struct {
	ID     int
	X, Y   float64 // unit: px
	VX, VY float64 // unit: px/time
	AX, AY float64 // unit: px/time²
	Radius float64 // unit: px
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:    "",
	Steps:     600,
	Dt:        1.0 / 60,
	Broad:     "sap",
	Left:      bounce.DefaultFrame.Left,
	Right:     bounce.DefaultFrame.Right,
	Top:       bounce.DefaultFrame.Top,
	Bottom:    bounce.DefaultFrame.Bottom,
	School:    "random",
	SwarmSize: 20,
	Radius:    10,
	Speed:     120,
	Spacing:   40,
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

// Validate checks the parameters that the simulation cannot check itself.
func (c *Config) Validate() error {
	switch {
	case c.Steps <= 0:
		return fmt.Errorf("bad steps %d", c.Steps)
	case !(c.Dt > 0):
		return fmt.Errorf("bad dt %g", c.Dt)
	}
	if _, err := bounce.NewBroadPhase(c.Broad); err != nil {
		return err
	}
	if err := c.Frame().Validate(); err != nil {
		return err
	}
	switch c.School {
	case "random", "lattice":
		if !(c.Radius > 0) {
			return fmt.Errorf("bad radius %g", c.Radius)
		}
		if c.SwarmSize < 0 {
			return fmt.Errorf("bad swarm size %d", c.SwarmSize)
		}
	case "data":
		if c.DataPath == "" {
			return fmt.Errorf("school %q requires a data path", c.School)
		}
	case "list":
		if len(c.Particle) == 0 {
			return fmt.Errorf("school %q requires at least one particle", c.School)
		}
	default:
		return fmt.Errorf("bad school %q", c.School)
	}
	return nil
}

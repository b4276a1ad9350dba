// Package hdf5 records bounce simulations to HDF5 files and loads them back.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/corvus96/bounce"
	"gonum.org/v1/hdf5"
)

// A Dataset is a quantity sampled from the simulation before every step.
// It is stored with one extra leading dimension indexing the steps.
type Dataset struct {
	Name string      // dataset name in the HDF5 file
	Val  interface{} // zero value of the element type, mapped to an HDF5 datatype
	Dims []int       // shape of a single step, empty for a scalar

	// Data samples the simulation. It returns a pointer to a row-major
	// slice of elements, or to a single element when Dims is empty.
	Data func(s *bounce.Simulation) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace // whole dataset, one step selected
	mspace *hdf5.Dataspace // one step in memory
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string       // path of output file
	Steps    int          // total number of steps
	Step     func() error // go to next step
	Datasets []*Dataset   // list of datasets

	// Attrs is an optional pointer to a struct whose numeric and string
	// fields are saved as attributes of the "config" dataset.
	Attrs interface{}
}

// Run runs a simulation and saves data to an HDF5 file.
// Datasets are written before each call to Step.
func Run(s *bounce.Simulation, conf *Config) (err error) {
	if conf.Steps <= 0 {
		return fmt.Errorf("hdf5: steps must be positive, got %d", conf.Steps)
	}
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf.Steps); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	for k := uint(0); k < uint(conf.Steps); k++ {
		// show progress as percentage
		fmt.Printf("\r% 3d%%", 100*k/uint(conf.Steps))

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = k
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(s), d.mspace, d.fspace); err != nil {
				return fmt.Errorf("hdf5: writing %s at step %d: %w", d.Name, k, err)
			}
		}

		if err := conf.Step(); err != nil {
			return err
		}
	}
	fmt.Printf("\r100%%\n")
	return nil
}

// A Record is what is recorded in the HDF5 file for each particle at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type Record struct {
	ID     int64
	Pos    bounce.Vec2
	Vel    bounce.Vec2
	Acc    bounce.Vec2
	Radius float64
	Mass   float64
}

// NewRecord returns the record of a particle.
func NewRecord(p *bounce.Particle) Record {
	return Record{
		ID:     int64(p.ID),
		Pos:    p.Pos,
		Vel:    p.Vel,
		Acc:    p.Acc,
		Radius: p.Radius,
		Mass:   p.Mass,
	}
}

// Particle rebuilds a particle from its record.
// The mass is derived from the radius again.
func (r Record) Particle() (bounce.Particle, error) {
	return bounce.NewParticle(int(r.ID), r.Pos, r.Vel, r.Acc, r.Radius)
}

// Particles returns a dataset recording the full state of n particles.
func Particles(n int) *Dataset {
	buf := make([]Record, n)
	return &Dataset{
		Name: "particles",
		Val:  Record{},
		Dims: []int{n},
		Data: func(s *bounce.Simulation) interface{} {
			buf = buf[:len(s.Swarm)]
			for i := range s.Swarm {
				buf[i] = NewRecord(&s.Swarm[i])
			}
			return &buf
		},
	}
}

// counts is the compound datatype of the "events" dataset.
type counts struct {
	Walls      int64
	Candidates int64
	Contacts   int64
	Degenerate int64
}

// Events returns a dataset recording, at every step, the events
// that led to the current state. ev must be updated by the step function.
func Events(ev *bounce.Events) *Dataset {
	var c counts
	return &Dataset{
		Name: "events",
		Val:  counts{},
		Data: func(*bounce.Simulation) interface{} {
			c = counts{
				Walls:      int64(ev.Walls),
				Candidates: int64(ev.Candidates),
				Contacts:   int64(ev.Contacts),
				Degenerate: int64(ev.Degenerate),
			}
			return &c
		},
	}
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}

	if conf.Attrs == nil {
		return nil
	}
	v := reflect.ValueOf(conf.Attrs).Elem()
	for i := 0; i < v.NumField(); i++ {
		switch v.Field(i).Kind() {
		case reflect.String, reflect.Int, reflect.Int64, reflect.Uint64, reflect.Float64:
		default:
			// tables and lists are not attributes
			continue
		}
		if err := writeAttr(dset, scalar, v.Type().Field(i).Name, v.Field(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// writeAttr writes a scalar attribute whose value is pointed to by ptr.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset for the given number of steps and selects
// the slab of the first one.
func (d *Dataset) init(file *hdf5.File, steps int) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	fdims := make([]uint, 1, len(d.Dims)+1)
	fdims[0] = uint(steps)
	for _, n := range d.Dims {
		fdims = append(fdims, uint(n))
	}
	slab := append([]uint{1}, fdims[1:]...)

	if d.fspace, err = hdf5.CreateSimpleDataspace(fdims, nil); err != nil {
		return err
	}
	if err = d.fspace.SelectHyperslab(make([]uint, len(fdims)), nil, slab, nil); err != nil {
		d.fspace.Close()
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(fdims[1:], nil)
	}
	if err != nil {
		d.fspace.Close()
		return err
	}

	if d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace); err != nil {
		d.mspace.Close()
		d.fspace.Close()
	}
	return err
}

// Close releases the dataset and its dataspaces, reporting the first error.
func (d *Dataset) Close() (err error) {
	checkClose(&err, d.dset)
	checkClose(&err, d.mspace)
	checkClose(&err, d.fspace)
	return err
}

// checkClose closes c and stores its error in *err unless one is already there.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}

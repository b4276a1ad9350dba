package hdf5

import (
	"fmt"

	"github.com/corvus96/bounce"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads particle frames from an HDF5 dataset
// written by the Particles dataset.
type Loader struct {
	i uint // index of current frame
	n uint // total number of frames

	data []Record // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset in an HDF5 file and returns an initialized loader.
func NewLoader(filepath, dataset string) (l *Loader, err error) {
	l = new(Loader)
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset(dataset)
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 || dims[0] == 0 {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, fmt.Errorf("loader: expected 2 non-empty dimensions, got %v", dims)
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		l.Close()
		return nil, err
	}

	l.data = make([]Record, dims[1])

	return l, nil
}

// Frames returns the number of frames in the dataset.
func (l *Loader) Frames() int {
	return int(l.n)
}

// Size returns the number of particles in a frame.
func (l *Loader) Size() int {
	return len(l.data)
}

// Load loads the next frame available into s
// and cycles when everything has already been loaded.
// On error s is left untouched.
func (l *Loader) Load(s *[]bounce.Particle) error {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return err
	}

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return err
	}

	frame := make([]bounce.Particle, len(l.data))
	for i, r := range l.data {
		p, err := r.Particle()
		if err != nil {
			return fmt.Errorf("loader: frame %d: %w", l.i, err)
		}
		frame[i] = p
	}
	*s = frame
	l.i = (l.i + 1) % l.n

	return nil
}

// Close releases the HDF5 resources held by the loader.
func (l *Loader) Close() (err error) {
	checkClose(&err, l.mspace)
	checkClose(&err, l.fspace)
	checkClose(&err, l.dset)
	checkClose(&err, l.file)
	return err
}

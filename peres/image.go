// Package peres reads string tables and raw resources straight
// out of PE files, without asking the OS loader.
package peres

import (
	"io"

	"github.com/itchio/pelican/pe"
	"github.com/itchio/wharf/eos"
	"github.com/pkg/errors"
)

// Image is a PE file opened for resource lookups.
type Image struct {
	Path string

	closer io.Closer
	rsrc   *resources
}

// OpenImage opens a PE file from disk.
func OpenImage(path string) (*Image, error) {
	f, err := eos.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	im, err := NewImage(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	im.closer = f
	return im, nil
}

// NewImage parses a PE image from `r`. Images without a resource
// section are valid, every lookup just comes up empty.
func NewImage(path string, r io.ReaderAt) (*Image, error) {
	pf, err := pe.NewFile(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s as a PE file", path)
	}

	im := &Image{Path: path}
	if sect := pf.Section(".rsrc"); sect != nil {
		im.rsrc = &resources{sect: sect}
	}
	return im, nil
}

// String returns string table entry `id`.
func (im *Image) String(id uint32, langs []uint16) (string, bool, error) {
	if im.rsrc == nil {
		return "", false, nil
	}
	s, ok, err := im.rsrc.String(id, langs)
	if err != nil {
		return "", false, errors.WithMessage(err, im.Path)
	}
	return s, ok, nil
}

// Resource returns the raw data of a resource.
func (im *Image) Resource(typ Key, name Key, langs []uint16) ([]byte, bool, error) {
	if im.rsrc == nil {
		return nil, false, nil
	}
	data, ok, err := im.rsrc.Lookup(typ, name, langs)
	if err != nil {
		return nil, false, errors.WithMessage(err, im.Path)
	}
	return data, ok, nil
}

func (im *Image) Close() error {
	if im.closer == nil {
		return nil
	}
	return im.closer.Close()
}

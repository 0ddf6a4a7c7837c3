package peres

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpltasks/cpltasks/mui"
	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// Loader opens modules by reading their resource sections
// directly. Unlike the OS loader it does not know where
// localized resources live, so it has to be told: MUIDirs
// names the satellite directories (`en-US`, `de-DE`) to look
// into, Languages the LANGIDs to prefer inside an image.
type Loader struct {
	Languages []uint16
	MUIDirs   []string
	// SearchPaths are searched for module names without a directory,
	// typically `%SystemRoot%\System32`
	SearchPaths []string
	Consumer    *state.Consumer
}

var _ mui.Loader = (*Loader)(nil)

// Open loads the image at `path`, and the satellite images for
// each of the MUI directories that have one.
func (l *Loader) Open(path string) (mui.Module, error) {
	consumer := l.Consumer
	if consumer == nil {
		consumer = &state.Consumer{}
	}

	resolved, err := l.locate(path)
	if err != nil {
		return nil, errors.WithStack(&mui.ResourceLoadError{Module: path, Err: err})
	}

	m := &module{path: resolved, langs: l.Languages}

	for _, dir := range l.MUIDirs {
		muiPath := filepath.Join(filepath.Dir(resolved), dir, filepath.Base(resolved)+".mui")
		stats, err := os.Stat(muiPath)
		if err != nil {
			continue
		}
		im, err := OpenImage(muiPath)
		if err != nil {
			consumer.Warnf("Ignoring unreadable MUI file %s: %s", muiPath, err.Error())
			continue
		}
		consumer.Debugf("Using %s (%s)", muiPath, humanize.IBytes(uint64(stats.Size())))
		m.images = append(m.images, im)
	}

	im, err := OpenImage(resolved)
	if err != nil {
		m.Close()
		return nil, errors.WithStack(&mui.ResourceLoadError{Module: resolved, Err: err})
	}
	m.images = append(m.images, im)

	return m, nil
}

func (l *Loader) locate(path string) (string, error) {
	if strings.ContainsAny(path, `\/`) {
		return path, nil
	}

	for _, dir := range l.SearchPaths {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found in search paths (%s)", path, strings.Join(l.SearchPaths, ", "))
}

// module is a main image and its satellites. Satellites come
// first, so localized entries win.
type module struct {
	path   string
	langs  []uint16
	images []*Image
}

var _ mui.Module = (*module)(nil)

func (m *module) LoadString(id uint32) (string, error) {
	for _, im := range m.images {
		s, ok, err := im.String(id, m.langs)
		if err != nil {
			return "", err
		}
		if ok {
			return s, nil
		}
	}
	return "", errors.WithStack(&mui.StringNotFoundError{Module: m.path, ID: id})
}

func (m *module) LoadResource(resourceType string, id uint32) ([]byte, error) {
	typ := ParseKey(resourceType)
	for _, im := range m.images {
		data, ok, err := im.Resource(typ, IntKey(id), m.langs)
		if err != nil {
			return nil, errors.WithStack(&mui.ResourceLoadError{Module: m.path, Err: err})
		}
		if ok {
			return data, nil
		}
	}
	return nil, errors.WithStack(&mui.ResourceLoadError{
		Module: m.path,
		Err:    fmt.Errorf("no %s resource #%d", typ, id),
	})
}

func (m *module) Close() error {
	var firstErr error
	for _, im := range m.images {
		if err := im.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.images = nil
	return firstErr
}

// Package mui resolves indirect string references
// (`@%SystemRoot%\system32\shell32.dll,-21761`) to the localized
// strings stored in module string tables.
package mui

import (
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// Module is a module opened as a data-only image: its code is
// never run and its imports are never resolved.
type Module interface {
	// LoadString returns string table entry `id`, in the
	// language the loader was set up for.
	LoadString(id uint32) (string, error)
	// LoadResource returns the raw bytes of a resource.
	// `resourceType` is either a name ("XML") or "#<number>".
	LoadResource(resourceType string, id uint32) ([]byte, error)
	// Close releases the image.
	Close() error
}

// Loader opens modules as data images.
type Loader interface {
	Open(path string) (Module, error)
}

// Resolver turns indirect string references into strings. Each
// call opens and releases its own module, nothing is cached.
type Resolver struct {
	Loader      Loader
	Environment Environment
	Consumer    *state.Consumer
}

// Resolve returns the string `ref` points to.
func (r *Resolver) Resolve(ref string) (string, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	path := ExpandVariables(parsed.Module, r.Environment)
	r.consumer().Debugf("Resolving #%d from %s", parsed.ID, path)

	return r.load(path, parsed.ID)
}

func (r *Resolver) load(path string, id uint32) (string, error) {
	mod, err := r.open(path)
	if err != nil {
		return "", err
	}
	defer r.release(mod, path)

	s, err := mod.LoadString(id)
	if err != nil {
		if IsStringNotFound(err) {
			return "", err
		}
		return "", errors.Wrapf(err, "loading string #%d from %s", id, path)
	}
	return s, nil
}

// LoadResource returns a raw resource of `module`, a path that may
// contain %NAME% placeholders. Like Resolve, it opens and releases
// the module.
func (r *Resolver) LoadResource(module string, resourceType string, id uint32) ([]byte, error) {
	path := ExpandVariables(module, r.Environment)
	r.consumer().Debugf("Loading %s resource #%d from %s", resourceType, id, path)

	mod, err := r.open(path)
	if err != nil {
		return nil, err
	}
	defer r.release(mod, path)

	return mod.LoadResource(resourceType, id)
}

func (r *Resolver) open(path string) (Module, error) {
	mod, err := r.Loader.Open(path)
	if err != nil {
		if IsResourceLoad(err) {
			return nil, err
		}
		return nil, errors.WithStack(&ResourceLoadError{Module: path, Err: err})
	}
	return mod, nil
}

func (r *Resolver) release(mod Module, path string) {
	err := mod.Close()
	if err != nil {
		r.consumer().Warnf("Could not release %s: %s", path, err.Error())
	}
}

func (r *Resolver) consumer() *state.Consumer {
	if r.Consumer == nil {
		return &state.Consumer{}
	}
	return r.Consumer
}

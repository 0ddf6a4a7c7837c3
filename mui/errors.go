package mui

import (
	"fmt"

	"github.com/pkg/errors"
)

// MalformedReferenceError is returned for strings that are not
// indirect string references.
type MalformedReferenceError struct {
	Ref    string
	Reason string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed string reference %q: %s", e.Ref, e.Reason)
}

// ResourceLoadError is returned when a module cannot be opened
// as a data image, or a raw resource cannot be read from it.
type ResourceLoadError struct {
	Module string
	Err    error
}

func (e *ResourceLoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not load resources from %s", e.Module)
	}
	return fmt.Sprintf("could not load resources from %s: %s", e.Module, e.Err.Error())
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// StringNotFoundError is returned when a module has no
// string table entry for an id.
type StringNotFoundError struct {
	Module string
	ID     uint32
}

func (e *StringNotFoundError) Error() string {
	return fmt.Sprintf("string #%d not found in %s", e.ID, e.Module)
}

func IsMalformedReference(err error) bool {
	_, ok := errors.Cause(err).(*MalformedReferenceError)
	return ok
}

func IsResourceLoad(err error) bool {
	_, ok := errors.Cause(err).(*ResourceLoadError)
	return ok
}

func IsStringNotFound(err error) bool {
	_, ok := errors.Cause(err).(*StringNotFoundError)
	return ok
}

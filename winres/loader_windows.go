//go:build windows
// +build windows

package winres

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"unsafe"

	"github.com/cpltasks/cpltasks/mui"
	"github.com/cpltasks/cpltasks/syscallex"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const loadFlags = syscallex.LOAD_LIBRARY_AS_DATAFILE | syscallex.DONT_RESOLVE_DLL_REFERENCES

// Loader maps modules as data files: nothing runs, imports are not
// resolved, and the OS picks the MUI satellite for the user's UI language.
type Loader struct {
	Consumer *state.Consumer
}

var _ mui.Loader = (*Loader)(nil)

func NewLoader(consumer *state.Consumer) (*Loader, error) {
	return &Loader{Consumer: consumer}, nil
}

func (l *Loader) Open(path string) (mui.Module, error) {
	path16, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, errors.WithStack(&mui.ResourceLoadError{Module: path, Err: err})
	}

	h, err := syscallex.LoadLibraryEx(path16, loadFlags)
	if err != nil {
		return nil, errors.WithStack(&mui.ResourceLoadError{Module: path, Err: err})
	}

	if l.Consumer != nil {
		l.Consumer.Debugf("Mapped %s at %x", path, uintptr(h))
	}
	return &module{path: path, handle: h}, nil
}

type module struct {
	path   string
	handle syscall.Handle
}

var _ mui.Module = (*module)(nil)

func (m *module) LoadString(id uint32) (string, error) {
	if id > 0xffff {
		// LoadString would only look at the low word
		return "", errors.WithStack(&mui.StringNotFoundError{Module: m.path, ID: id})
	}

	buffer := make([]uint16, 1024)
	for {
		n, err := syscallex.LoadString(m.handle, id, buffer)
		if err != nil {
			if isNotFound(err) {
				return "", errors.WithStack(&mui.StringNotFoundError{Module: m.path, ID: id})
			}
			return "", errors.WithStack(&mui.ResourceLoadError{Module: m.path, Err: err})
		}

		// truncated to fit, try again with more room
		if n >= len(buffer)-1 {
			buffer = make([]uint16, len(buffer)*2)
			continue
		}
		return syscall.UTF16ToString(buffer[:n]), nil
	}
}

func (m *module) LoadResource(resourceType string, id uint32) ([]byte, error) {
	wrap := func(err error) error {
		return errors.WithStack(&mui.ResourceLoadError{
			Module: m.path,
			Err:    fmt.Errorf("%s resource #%d: %s", resourceType, id, err.Error()),
		})
	}

	// anything above 0xffff is a pointer to FindResource
	if id == 0 || id > 0xffff {
		return nil, wrap(errors.New("resource id out of range"))
	}

	typ, typ16, err := resourcePointer(resourceType)
	if err != nil {
		return nil, wrap(err)
	}

	resInfo, err := syscallex.FindResource(m.handle, uintptr(id), typ)
	runtime.KeepAlive(typ16)
	if err != nil {
		return nil, wrap(err)
	}

	size, err := syscallex.SizeofResource(m.handle, resInfo)
	if err != nil {
		return nil, wrap(err)
	}

	resData, err := syscallex.LoadResource(m.handle, resInfo)
	if err != nil {
		return nil, wrap(err)
	}

	addr, err := syscallex.LockResource(resData)
	if err != nil {
		return nil, wrap(err)
	}

	// the mapping goes away with FreeLibrary, so copy it out
	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(addr)), size))
	return data, nil
}

func (m *module) Close() error {
	if m.handle == 0 {
		return nil
	}
	err := syscallex.FreeLibrary(m.handle)
	m.handle = 0
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// resourcePointer turns "#6" into MAKEINTRESOURCE(6) and anything
// else into a pointer to its UTF-16 form, which the caller must keep
// alive until the call returns.
func resourcePointer(s string) (uintptr, *uint16, error) {
	if strings.HasPrefix(s, "#") {
		if n, err := strconv.ParseUint(s[1:], 10, 16); err == nil {
			return uintptr(n), nil, nil
		}
	}
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return 0, nil, err
	}
	return uintptr(unsafe.Pointer(p)), p, nil
}

func isNotFound(err error) bool {
	switch err {
	case syscall.ERROR_NOT_FOUND,
		syscallex.ERROR_RESOURCE_TYPE_NOT_FOUND,
		syscallex.ERROR_RESOURCE_NAME_NOT_FOUND,
		syscallex.ERROR_RESOURCE_LANG_NOT_FOUND:
		return true
	}
	return false
}

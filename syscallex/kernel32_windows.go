//go:build windows
// +build windows

package syscallex

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// LoadLibraryEx flags
// cf. https://docs.microsoft.com/en-us/windows/win32/api/libloaderapi/nf-libloaderapi-loadlibraryexw
const (
	DONT_RESOLVE_DLL_REFERENCES = 0x00000001
	LOAD_LIBRARY_AS_DATAFILE    = 0x00000002
)

// GetLocaleInfoEx types
const (
	LOCALE_SENGLISHLANGUAGENAME = 0x00001001
	LOCALE_SENGLISHCOUNTRYNAME  = 0x00001002
)

const LOCALE_NAME_MAX_LENGTH = 85

// Resource lookup failures
const (
	ERROR_RESOURCE_TYPE_NOT_FOUND syscall.Errno = 1813
	ERROR_RESOURCE_NAME_NOT_FOUND syscall.Errno = 1814
	ERROR_RESOURCE_LANG_NOT_FOUND syscall.Errno = 1815
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procLoadLibraryExW           = modkernel32.NewProc("LoadLibraryExW")
	procFreeLibrary              = modkernel32.NewProc("FreeLibrary")
	procFindResourceW            = modkernel32.NewProc("FindResourceW")
	procLoadResource             = modkernel32.NewProc("LoadResource")
	procSizeofResource           = modkernel32.NewProc("SizeofResource")
	procLockResource             = modkernel32.NewProc("LockResource")
	procGetLocaleInfoEx          = modkernel32.NewProc("GetLocaleInfoEx")
	procGetUserDefaultUILanguage = modkernel32.NewProc("GetUserDefaultUILanguage")
	procLCIDToLocaleName         = modkernel32.NewProc("LCIDToLocaleName")
)

func LoadLibraryEx(
	fileName *uint16,
	flags uint32,
) (handle syscall.Handle, err error) {
	r1, _, e1 := syscall.Syscall(
		procLoadLibraryExW.Addr(),
		3,
		uintptr(unsafe.Pointer(fileName)),
		0,
		uintptr(flags),
	)
	handle = syscall.Handle(r1)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
	}
	return
}

func FreeLibrary(module syscall.Handle) (err error) {
	r1, _, e1 := syscall.Syscall(
		procFreeLibrary.Addr(),
		1,
		uintptr(module),
		0, 0,
	)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
	}
	return
}

// FindResource takes name and type either as a pointer to a
// UTF-16 string or as an integer resource (MAKEINTRESOURCE).
func FindResource(
	module syscall.Handle,
	name uintptr,
	resourceType uintptr,
) (resInfo syscall.Handle, err error) {
	r1, _, e1 := syscall.Syscall(
		procFindResourceW.Addr(),
		3,
		uintptr(module),
		name,
		resourceType,
	)
	resInfo = syscall.Handle(r1)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
	}
	return
}

func LoadResource(
	module syscall.Handle,
	resInfo syscall.Handle,
) (resData syscall.Handle, err error) {
	r1, _, e1 := syscall.Syscall(
		procLoadResource.Addr(),
		2,
		uintptr(module),
		uintptr(resInfo),
		0,
	)
	resData = syscall.Handle(r1)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
	}
	return
}

func SizeofResource(
	module syscall.Handle,
	resInfo syscall.Handle,
) (size uint32, err error) {
	r1, _, e1 := syscall.Syscall(
		procSizeofResource.Addr(),
		2,
		uintptr(module),
		uintptr(resInfo),
		0,
	)
	size = uint32(r1)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
	}
	return
}

// LockResource returns the address of the first byte of a loaded
// resource. The memory belongs to the module and is valid until
// the module is freed.
func LockResource(resData syscall.Handle) (addr uintptr, err error) {
	r1, _, _ := syscall.Syscall(
		procLockResource.Addr(),
		1,
		uintptr(resData),
		0, 0,
	)
	if r1 == 0 {
		err = syscall.EINVAL
		return
	}
	addr = r1
	return
}

// GetLocaleInfoEx queries a locale by name. A nil name stands for
// LOCALE_NAME_USER_DEFAULT.
func GetLocaleInfoEx(localeName *uint16, lcType uint32) (s string, err error) {
	buffer := make([]uint16, 256)

	r1, _, e1 := syscall.Syscall6(
		procGetLocaleInfoEx.Addr(),
		4,
		uintptr(unsafe.Pointer(localeName)),
		uintptr(lcType),
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(len(buffer)),
		0, 0,
	)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
		return
	}
	s = syscall.UTF16ToString(buffer)
	return
}

func GetUserDefaultUILanguage() uint16 {
	r1, _, _ := syscall.Syscall(procGetUserDefaultUILanguage.Addr(), 0, 0, 0, 0)
	return uint16(r1)
}

func LCIDToLocaleName(lcid uint32) (s string, err error) {
	buffer := make([]uint16, LOCALE_NAME_MAX_LENGTH)

	r1, _, e1 := syscall.Syscall6(
		procLCIDToLocaleName.Addr(),
		4,
		uintptr(lcid),
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(len(buffer)),
		0,
		0, 0,
	)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.EINVAL
		}
		return
	}
	s = syscall.UTF16ToString(buffer)
	return
}

//go:build windows
// +build windows

package syscallex

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	moduser32 = windows.NewLazySystemDLL("user32.dll")

	procLoadStringW = moduser32.NewProc("LoadStringW")
)

// LoadString copies string resource `id` of `module` into `buffer`
// and returns the number of characters copied, not counting the
// terminating null. Zero means the string does not exist (or is empty).
func LoadString(
	module syscall.Handle,
	id uint32,
	buffer []uint16,
) (n int, err error) {
	r1, _, e1 := syscall.Syscall6(
		procLoadStringW.Addr(),
		4,
		uintptr(module),
		uintptr(id),
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(len(buffer)),
		0, 0,
	)
	n = int(r1)
	if r1 == 0 {
		if e1 != 0 {
			err = e1
		} else {
			err = syscall.ERROR_NOT_FOUND
		}
	}
	return
}

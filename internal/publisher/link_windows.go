//go:build windows

package publisher

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Creating symlinks without Developer Mode or SeCreateSymbolicLinkPrivilege
// fails with ERROR_PRIVILEGE_NOT_HELD.
func platformLinkUnsupported(err error) bool {
	return errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) ||
		errors.Is(err, windows.ERROR_NOT_SUPPORTED) ||
		errors.Is(err, windows.ERROR_INVALID_FUNCTION)
}

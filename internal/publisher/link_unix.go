//go:build unix

package publisher

import (
	"errors"

	"golang.org/x/sys/unix"
)

// EPERM is what Linux returns for filesystems without symlink support (vfat,
// some FUSE mounts); the others cover kernels and mounts lacking the call.
func platformLinkUnsupported(err error) bool {
	return errors.Is(err, unix.EPERM) ||
		errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.ENOSYS)
}

//go:build linux || freebsd || darwin || aix || dragonfly || netbsd || openbsd
// +build linux freebsd darwin aix dragonfly netbsd openbsd

package ftpserver

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Control is installed as the net.ListenConfig Control hook for the passive
// listener (the active-mode dialer does not use it), so a PASV listener that gets torn
// down and immediately reopened on the same ephemeral port (two PASVs in a
// row racing a slow client) doesn't hit EADDRINUSE.
func Control(_, _ string, rawConn syscall.RawConn) error {
	var sockErr error

	ctlErr := rawConn.Control(func(fd uintptr) {
		if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); sockErr != nil {
			return
		}

		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if ctlErr != nil {
		return fmt.Errorf("unable to set socket options: %w", ctlErr)
	}

	if sockErr != nil {
		return fmt.Errorf("unable to set socket options: %w", sockErr)
	}

	return nil
}

package ftpserver

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// Control is the Windows counterpart of control_unix.go's Control: Windows
// has no SO_REUSEPORT, so only address reuse is requested.
func Control(_, _ string, rawConn syscall.RawConn) error {
	var sockErr error

	ctlErr := rawConn.Control(func(fd uintptr) {
		sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if ctlErr != nil {
		return ctlErr
	}

	return sockErr
}

//go:build windows

package responder

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// reuseAddr sets SO_REUSEADDR before bind.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

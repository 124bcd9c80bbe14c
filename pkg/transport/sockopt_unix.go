//go:build linux || darwin || freebsd || netbsd || openbsd

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func socketControl(sendBufferBytes int) func(network, address string, c syscall.RawConn) error {
	if sendBufferBytes <= 0 {
		return nil
	}
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, sendBufferBytes)
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package transport

import (
	"syscall"

	"github.com/tauraamui/dragoncast/pkg/log"
)

func socketControl(sendBufferBytes int) func(network, address string, c syscall.RawConn) error {
	if sendBufferBytes > 0 {
		log.Warn("Send buffer size is not supported on this platform, ignoring %d", sendBufferBytes)
	}
	return nil
}

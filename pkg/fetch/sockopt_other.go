//go:build !unix

package fetch

import "syscall"

// setReuseAddr is a no-op where x/sys/unix socket options are unavailable
func setReuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}

package fetch

import (
	"net"

	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/config"
)

// NewDialer creates the TCP dialer used by the Fetcher. Sockets get SO_REUSEADDR
// before connecting, and keep-alive probes are disabled since every request is sent
// with "Connection: close".
func NewDialer(cfg config.FetchConfig, log *logrus.Entry) *net.Dialer {
	log.Debugf("Initializing dialer (timeout %v, reuseaddr on)", cfg.DialTimeout)
	return &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: -1,
		Control:   setReuseAddr,
	}
}

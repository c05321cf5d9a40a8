// Package transport delivers raw bytes of accepted connections. It knows nothing about
// the framing of the data it delivers.
package transport

import (
	"net"

	"github.com/indigo-web/textframe/config"
)

// Transport accepts connections and calls cb for each of them in a separate goroutine.
// The connection is closed as soon as cb returns.
type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}

package transport

import (
	"crypto/tls"
	"fmt"
	"net"
)

// TLS is a TCP transport, handshaking every accepted connection with the given certificates.
// The handshake itself is deferred until the first read from the connection.
type TLS struct {
	config *tls.Config
	TCP
}

func NewTLS(certs ...tls.Certificate) *TLS {
	return &TLS{
		config: &tls.Config{
			Certificates: certs,
			MinVersion:   tls.VersionTLS12,
		},
	}
}

// LoadTLS reads a PEM-encoded certificate and its private key from the files.
func LoadTLS(certFile, keyFile string) (*TLS, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load the TLS key pair: %w", err)
	}

	return NewTLS(cert), nil
}

func (t *TLS) Bind(addr string) error {
	tcp, err := bindTCP(addr)
	if err != nil {
		return err
	}

	t.TCP = newTCP(tlsListener{
		TCPListener: tcp,
		tls:         tls.NewListener(tcp, t.config),
	})

	return nil
}

// tlsListener accepts TLS connections, but sets deadlines on the underlying TCP listener,
// which the accept loop needs in order to observe stops.
type tlsListener struct {
	*net.TCPListener
	tls net.Listener
}

func (l tlsListener) Accept() (net.Conn, error) {
	return l.tls.Accept()
}

package transport

import (
	"net"
	"sync/atomic"

	"github.com/indigo-web/textframe/config"
	"golang.org/x/sync/errgroup"
)

// Supervisor runs multiple transports at once. As soon as any of them stops, all the
// others are stopped, too.
type Supervisor struct {
	stopped *atomic.Bool
	ts      []boundTransport
}

func NewSupervisor() *Supervisor {
	return &Supervisor{
		stopped: new(atomic.Bool),
	}
}

// Add binds the transport to the address. If binding fails, all the previously added
// transports are closed.
func (s *Supervisor) Add(addr string, transport Transport, cb func(net.Conn)) error {
	err := transport.Bind(addr)
	if err != nil {
		s.close()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  transport,
	})

	return nil
}

// Addrs returns addresses of all the bound transports in the order they were added.
func (s *Supervisor) Addrs() []net.Addr {
	addrs := make([]net.Addr, len(s.ts))
	for i, t := range s.ts {
		addrs[i] = t.t.Addr()
	}

	return addrs
}

// Run blocks until all the transports are stopped and their connections are done.
// Returns the first error returned by a transport, if any.
func (s *Supervisor) Run(cfg config.NET) error {
	if len(s.ts) == 0 {
		return nil
	}

	var group errgroup.Group
	for _, t := range s.ts {
		group.Go(func() error {
			defer s.Stop()
			return t.t.Listen(cfg, t.cb)
		})
	}

	err := group.Wait()
	for _, t := range s.ts {
		t.t.Wait()
		t.t.Close()
	}

	return err
}

// Stop signals all the transports to stop accepting connections. It doesn't wait for them
// to stop, Run returns when they are.
func (s *Supervisor) Stop() {
	if s.stopped.Swap(true) {
		return
	}

	for _, t := range s.ts {
		t.t.Stop()
	}
}

func (s *Supervisor) close() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	cb func(conn net.Conn)
	t  Transport
}

package textframe

import (
	"errors"
	"io"
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/textframe/config"
	"github.com/indigo-web/textframe/transport"
	"go.uber.org/zap"
)

// HandlerFunc receives every message decoded from the client's stream. Returning an error
// closes the connection.
type HandlerFunc func(client transport.Client, msg string) error

// Server drives a decoder for every accepted connection.
type Server struct {
	cfg        *config.Config
	handler    HandlerFunc
	newFraming func() Framing
	logger     *zap.Logger
	sup        *transport.Supervisor
}

type Option func(*Server)

// WithLogger sets the logger. By default, nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFraming sets the constructor of a framing. It's called once per connection, as
// framings hold the state of partially received headers.
func WithFraming(newFraming func() Framing) Option {
	return func(s *Server) {
		s.newFraming = newFraming
	}
}

func NewServer(cfg *config.Config, handler HandlerFunc, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:     cfg,
		handler: handler,
		newFraming: func() Framing {
			return NewLengthLine(cfg.Decoder.Delimiter)
		},
		logger: zap.NewNop(),
		sup:    transport.NewSupervisor(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Listen binds the transport to the address. If t is nil, plain TCP is used.
func (s *Server) Listen(addr string, t transport.Transport) error {
	if t == nil {
		t = transport.NewTCP()
	}

	return s.sup.Add(addr, t, func(conn net.Conn) {
		client := transport.NewClient(conn, s.cfg.NET.ReadTimeout, make([]byte, s.cfg.NET.ReadBufferSize))
		_ = s.Serve(client)
	})
}

// Addrs returns the addresses of all the bound transports.
func (s *Server) Addrs() []net.Addr {
	return s.sup.Addrs()
}

// Run serves the bound transports until Stop is called or any of them fails.
func (s *Server) Run() error {
	for _, addr := range s.sup.Addrs() {
		s.logger.Info("listening", zap.Stringer("addr", addr))
	}

	err := s.sup.Run(s.cfg.NET)
	s.logger.Info("stopped", zap.Error(err))

	return err
}

// Stop stops accepting new connections. Run returns once all the served connections are done.
func (s *Server) Stop() {
	s.sup.Stop()
}

// Serve decodes the client's stream until it ends or turns out to be malformed. The client
// is closed in both cases. Reaching io.EOF isn't considered an error, even if it interrupts
// a message. The interrupted message is discarded.
func (s *Server) Serve(client transport.Client) error {
	logger := s.logger.With(
		zap.String("conn", uniuri.NewLen(8)),
		zap.Stringer("remote", client.Remote()),
	)

	decoder, err := NewDecoder(s.cfg, s.newFraming())
	if err != nil {
		logger.Error("cannot initialize decoder", zap.Error(err))
		_ = client.Close()
		return err
	}

	defer decoder.Close()
	defer client.Close()

	logger.Debug("connection opened")
	onMessage := func(msg string) error {
		return s.handler(client, msg)
	}

	for {
		data, err := client.Read()
		if len(data) > 0 {
			if ferr := decoder.Feed(data, onMessage); ferr != nil {
				logger.Warn("closing malformed stream", zap.Error(ferr))
				return ferr
			}
		}

		if err != nil {
			if decoder.Pending() || decoder.State() != AwaitingHeader {
				logger.Debug("incomplete message discarded", zap.Stringer("state", decoder.State()))
			}

			if errors.Is(err, io.EOF) {
				logger.Debug("connection closed")
				return nil
			}

			logger.Debug("connection closed", zap.Error(err))
			return err
		}
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/indigo-web/textframe"
	"github.com/indigo-web/textframe/transport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addrs   []string
	tlsCert string
	tlsKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept connections and print the messages decoded from them",
	Long: `Listens on every given address and decodes the stream of each accepted connection
independently. Malformed streams are closed, the rest of the connections aren't affected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return serve(ctx, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.StringSliceVarP(&addrs, "addr", "a", []string{":9000"}, "addresses to listen on")
	flags.StringVar(&tlsCert, "tls-cert", "", "path to the TLS certificate")
	flags.StringVar(&tlsKey, "tls-key", "", "path to the TLS private key")
	serveCmd.MarkFlagsRequiredTogether("tls-cert", "tls-key")
}

func serve(ctx context.Context, logger *zap.Logger) error {
	cfg := newConfig()
	makeFraming, err := newFraming(cfg)
	if err != nil {
		return err
	}

	var (
		mu  sync.Mutex
		seq int
	)

	handler := func(client transport.Client, msg string) error {
		mu.Lock()
		defer mu.Unlock()

		seq++
		return printMessage(os.Stdout, printedMessage{
			Source: client.Remote().String(),
			Seq:    seq,
			Length: len(msg),
			Text:   msg,
		})
	}

	server := textframe.NewServer(cfg, handler,
		textframe.WithLogger(logger),
		textframe.WithFraming(makeFraming),
	)

	for _, addr := range addrs {
		t, err := newTransport()
		if err != nil {
			return err
		}

		if err = server.Listen(addr, t); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		server.Stop()
	}()

	return server.Run()
}

func newTransport() (transport.Transport, error) {
	if len(tlsCert) == 0 {
		return transport.NewTCP(), nil
	}

	t, err := transport.LoadTLS(tlsCert, tlsKey)
	if err != nil {
		return nil, err
	}

	return t, nil
}

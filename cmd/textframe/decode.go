package main

import (
	"errors"
	"io"

	"github.com/indigo-web/textframe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chunkSize int

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode messages from the standard input",
	Long: `Reads the standard input in chunks of the given size, feeds them to the decoder
and prints every decoded message. An incomplete message at the end of the input is
reported and discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return decode(logger, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().IntVarP(&chunkSize, "chunk", "c", 4096, "size of the chunks the input is fed by")
}

func decode(logger *zap.Logger, r io.Reader, w io.Writer) error {
	cfg := newConfig()
	makeFraming, err := newFraming(cfg)
	if err != nil {
		return err
	}

	decoder, err := textframe.NewDecoder(cfg, makeFraming())
	if err != nil {
		return err
	}
	defer decoder.Close()

	var seq int
	onMessage := func(msg string) error {
		seq++
		return printMessage(w, printedMessage{Seq: seq, Length: len(msg), Text: msg})
	}

	buff := make([]byte, max(chunkSize, 1))
	for {
		n, err := r.Read(buff)
		if n > 0 {
			if ferr := decoder.Feed(buff[:n], onMessage); ferr != nil {
				return ferr
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			if decoder.State() != textframe.AwaitingHeader {
				logger.Warn("input ends with an incomplete message", zap.Stringer("state", decoder.State()))
			}

			logger.Debug("input is over", zap.Int("messages", seq))
			return nil
		case err != nil:
			return err
		}
	}
}

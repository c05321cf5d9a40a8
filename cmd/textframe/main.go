package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/indigo-web/textframe"
	"github.com/indigo-web/textframe/config"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel string
	framing  string
	charset  string
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "textframe",
	Short: "Length-prefixed text message decoder",
	Long: `Decodes length-prefixed text messages out of a byte stream, either accepted
over TCP or read from the standard input.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flags.StringVar(&framing, "framing", "line", "header framing: line (\"5\\nhello\") or headers (\"Content-Length: 5\\r\\n\\r\\nhello\")")
	flags.StringVar(&charset, "charset", "utf-8", "charset of the content")
	flags.BoolVar(&asJSON, "json", false, "print messages as JSON objects, one per line")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}

func newConfig() *config.Config {
	cfg := config.Default()
	cfg.Decoder.Charset = charset
	return cfg
}

func newFraming(cfg *config.Config) (func() textframe.Framing, error) {
	switch strings.ToLower(framing) {
	case "line":
		return func() textframe.Framing {
			return textframe.NewLengthLine(cfg.Decoder.Delimiter)
		}, nil
	case "headers":
		return func() textframe.Framing {
			return textframe.NewContentLengthHeaders()
		}, nil
	default:
		return nil, fmt.Errorf("unknown framing: %s", framing)
	}
}

type printedMessage struct {
	Source string `json:"source,omitempty"`
	Seq    int    `json:"seq"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func printMessage(w io.Writer, msg printedMessage) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, msg.Text)
		return err
	}

	return json.NewEncoder(w).Encode(msg)
}

package config

import (
	"time"
)

type (
	HeaderSize struct {
		Default, Maximal int
	}
)

type (
	Decoder struct {
		// Charset is a label of the charset the content is decoded from. Any WHATWG
		// encoding label is accepted, e.g. utf-8, latin1, shift_jis.
		Charset string
		// Delimiter terminates the length line when the line framing is used.
		Delimiter byte
		// MaxContentLength is the biggest content length a header may declare. Messages
		// declaring more are rejected before any of their content is read, as the partial
		// buffer is sized after the declared length.
		MaxContentLength int
		// HeaderSize limits the header accumulator. Default is its initial capacity, Maximal
		// is the hard limit, exceeding which results in errors.ErrHeaderTooLarge.
		HeaderSize HeaderSize
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}
)

// Config holds settings of the decoder and the transport it's driven by.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Decoder Decoder
	NET     NET
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Decoder: Decoder{
			Charset:          "utf-8",
			Delimiter:        '\n',
			MaxContentLength: 16 * 1024 * 1024,
			HeaderSize: HeaderSize{
				Default: 64,
				// headers with key-value lines may carry more than just the length
				Maximal: 4 * 1024,
			},
		},
		NET: NET{
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
	}
}

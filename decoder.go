// Package textframe decodes length-prefixed text messages out of a byte stream, which is
// delivered in arbitrary pieces having nothing in common with message boundaries.
package textframe

import (
	"fmt"

	"github.com/indigo-web/textframe/buffer"
	"github.com/indigo-web/textframe/config"
	"github.com/indigo-web/textframe/errors"
	"github.com/indigo-web/textframe/internal/charset"
	"github.com/indigo-web/textframe/internal/content"
	"github.com/indigo-web/textframe/window"
)

// OnMessage receives every complete message. An error returned from it stops the decoding
// and is returned back from Feed.
type OnMessage func(msg string) error

// Decoder is a per-connection frame controller. It isn't safe for concurrent use, however
// nothing is shared between different decoders.
type Decoder struct {
	maxContentLength int
	framing          Framing
	header           *buffer.Buffer
	content          *content.Reader
	window           window.Window

	state         State
	contentLength int
	message       string
}

// NewDecoder returns a decoder in the AwaitingHeader state. If framing is nil, the length
// line framing with the configured delimiter is used.
func NewDecoder(cfg *config.Config, framing Framing) (*Decoder, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if framing == nil {
		framing = NewLengthLine(cfg.Decoder.Delimiter)
	}

	decoder, err := charset.New(cfg.Decoder.Charset)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		maxContentLength: cfg.Decoder.MaxContentLength,
		framing:          framing,
		header:           buffer.New(cfg.Decoder.HeaderSize.Default, cfg.Decoder.HeaderSize.Maximal),
		content:          content.NewReader(decoder),
		state:            AwaitingHeader,
	}, nil
}

// Feed processes the data, calling onMessage for every message completed by it, in the
// order they appear. Whatever is left of an incomplete message is kept until the next
// call; the data itself isn't retained after returning.
//
// Any error is fatal: the stream can't be resynchronized, so the decoder is closed.
func (d *Decoder) Feed(data []byte, onMessage OnMessage) error {
	if d.state == Closed {
		return errors.ErrClosed
	}

	d.window.Reset(data)
	defer d.window.Reset(nil)

	for {
		switch d.state {
		case AwaitingHeader:
			if d.window.Empty() {
				return nil
			}

			length, done, err := d.framing.Header(&d.window, d.header)
			if err != nil {
				return d.fail(err)
			}

			if !done {
				return nil
			}

			d.header.Clear()
			if length > d.maxContentLength {
				return d.fail(fmt.Errorf(
					"%w: %d exceeds %d", errors.ErrContentTooLarge, length, d.maxContentLength,
				))
			}

			d.contentLength = length
			d.state = AwaitingContent
		case AwaitingContent:
			text, done, err := d.content.Read(&d.window, d.contentLength)
			if err != nil {
				return d.fail(err)
			}

			if !done {
				return nil
			}

			d.message = text
			d.state = MessageReady
		case MessageReady:
			msg := d.message
			d.message, d.contentLength = "", 0
			d.state = AwaitingHeader

			if err := onMessage(msg); err != nil {
				return d.fail(err)
			}
		case Closed:
			// closed by onMessage
			return nil
		default:
			panic(fmt.Sprintf("BUG: unexpected decoder state: %s", d.state))
		}
	}
}

// State returns the current state.
func (d *Decoder) State() State {
	return d.state
}

// Pending tells whether the content of the current message is partially received.
func (d *Decoder) Pending() bool {
	return d.content.Buffered()
}

// Close discards everything received for an incomplete message. Partial messages are
// never emitted. Feeding a closed decoder results in errors.ErrClosed.
func (d *Decoder) Close() {
	d.content.Reset()
	d.framing.Reset()
	d.header.Clear()
	d.message, d.contentLength = "", 0
	d.state = Closed
}

func (d *Decoder) fail(err error) error {
	d.Close()
	return err
}

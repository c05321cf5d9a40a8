package textframe

import (
	"bytes"
	"fmt"

	"github.com/indigo-web/textframe/buffer"
	"github.com/indigo-web/textframe/errors"
	"github.com/indigo-web/textframe/intconv"
	"github.com/indigo-web/textframe/scan"
	"github.com/indigo-web/textframe/window"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Framing parses message headers. Everything a concrete protocol puts before the content
// is its business, as long as the header declares the content length in bytes.
type Framing interface {
	// Header consumes header bytes from the window, accumulating them in acc if the header
	// isn't complete yet. Returns done once the header is over; the window's cursor must
	// point at the first content byte at that moment. The accumulator is cleared by the
	// caller after every complete header.
	Header(w *window.Window, acc *buffer.Buffer) (contentLength int, done bool, err error)
	// Reset drops the state of a partially parsed header.
	Reset()
}

var (
	_ Framing = new(LengthLine)
	_ Framing = new(ContentLengthHeaders)
)

// LengthLine is the simplest framing: a decimal content length terminated by the
// delimiter, followed by the content itself, e.g. "5\nhello".
type LengthLine struct {
	Delimiter byte
}

func NewLengthLine(delimiter byte) *LengthLine {
	return &LengthLine{Delimiter: delimiter}
}

func (l *LengthLine) Header(w *window.Window, acc *buffer.Buffer) (int, bool, error) {
	found, err := scan.Until(l.Delimiter, w, acc)
	if err != nil || !found {
		return 0, false, err
	}

	length, err := intconv.ParseLength(acc.Finish())
	return length, true, err
}

func (*LengthLine) Reset() {}

type headersState uint8

const (
	eKey headersState = iota
	eSpaces
	eValue
	eEmptyLineCR
)

// ContentLengthHeaders is a framing of key-value header lines terminated by an empty
// line, where the content length is carried by the Content-Length header:
//
//	Content-Length: 5\r\n
//	\r\n
//	hello
//
// Keys are case-insensitive, other headers are skipped. Bare \n line endings are
// tolerated.
type ContentLengthHeaders struct {
	state  headersState
	key    string
	length int
	seen   bool
}

func NewContentLengthHeaders() *ContentLengthHeaders {
	return new(ContentLengthHeaders)
}

func (h *ContentLengthHeaders) Header(w *window.Window, acc *buffer.Buffer) (int, bool, error) {
	for !w.Empty() {
		switch h.state {
		case eKey:
			if acc.SegmentLength() == 0 {
				c, _ := w.Peek()
				switch c {
				case '\r':
					w.Advance(1)
					h.state = eEmptyLineCR
					continue
				case '\n':
					w.Advance(1)
					return h.finish()
				}
			}

			if !colonBeforeLF(w.Bytes()) {
				return 0, false, fmt.Errorf("%w: header line without colon", errors.ErrMalformedHeader)
			}

			found, err := scan.Until(':', w, acc)
			if err != nil || !found {
				return 0, false, err
			}

			h.key = uf.B2S(acc.Finish())
			h.state = eSpaces
		case eSpaces:
			scan.SkipSpaces(w)
			if !w.Empty() {
				h.state = eValue
			}
		case eValue:
			found, err := scan.Until('\n', w, acc)
			if err != nil || !found {
				return 0, false, err
			}

			if value := acc.Preview(); len(value) > 0 && value[len(value)-1] == '\r' {
				acc.Trunc(1)
			}

			value := acc.Finish()
			if strcomp.EqualFold(h.key, "content-length") {
				h.length, err = intconv.ParseLength(value)
				if err != nil {
					return 0, false, err
				}

				h.seen = true
			}

			// both the key and the value are not needed anymore
			h.key = ""
			acc.Clear()
			h.state = eKey
		case eEmptyLineCR:
			if c, _ := w.Peek(); c != '\n' {
				return 0, false, fmt.Errorf("%w: expected LF after CR", errors.ErrMalformedHeader)
			}

			w.Advance(1)
			return h.finish()
		}
	}

	return 0, false, nil
}

// colonBeforeLF reports whether the current line has a colon or isn't complete yet.
func colonBeforeLF(data []byte) bool {
	lf := bytes.IndexByte(data, '\n')
	if lf == -1 {
		return true
	}

	return bytes.IndexByte(data[:lf], ':') != -1
}

func (h *ContentLengthHeaders) finish() (int, bool, error) {
	length, seen := h.length, h.seen
	h.Reset()
	if !seen {
		return 0, false, errors.ErrNoContentLength
	}

	return length, true, nil
}

func (h *ContentLengthHeaders) Reset() {
	*h = ContentLengthHeaders{}
}

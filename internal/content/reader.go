// Package content accumulates the content of a message, which may be delivered by an
// arbitrary number of windows, and decodes it into text.
package content

import (
	"github.com/indigo-web/textframe/internal/charset"
	"github.com/indigo-web/textframe/window"
	"github.com/indigo-web/utils/uf"
)

// Reader decodes exactly the declared number of content bytes. While the content isn't
// received completely, the decoded part is kept in a partial buffer, which is allocated
// for each partially delivered message and released as soon as the message is complete.
type Reader struct {
	decoder  *charset.Decoder
	partial  []byte
	consumed int
}

func NewReader(decoder *charset.Decoder) *Reader {
	return &Reader{
		decoder: decoder,
	}
}

// Read returns the decoded content and true once all the contentLength bytes are read.
// Bytes past the content are left in the window untouched. If the window doesn't contain
// enough bytes, they're consumed and false is returned; the same contentLength must be
// passed to the next call.
func (r *Reader) Read(w *window.Window, contentLength int) (text string, done bool, err error) {
	if contentLength == 0 {
		return "", true, nil
	}

	if w.Empty() {
		return "", false, nil
	}

	required := contentLength - r.consumed
	if w.Readable() < required {
		if r.partial == nil {
			r.partial = make([]byte, 0, contentLength*r.decoder.MaxBytesPerByte())
		}

		chunk := w.Next(w.Readable())
		r.partial, err = r.decoder.Decode(r.partial, chunk, false)
		if err != nil {
			r.Reset()
			return "", true, err
		}

		r.consumed += len(chunk)
		return "", false, nil
	}

	decoded := r.partial
	if decoded == nil {
		decoded = make([]byte, 0, required*r.decoder.MaxBytesPerByte())
	}

	decoded, err = r.decoder.Decode(decoded, w.Next(required), true)
	r.partial, r.consumed = nil, 0
	if err != nil {
		r.decoder.Reset()
		return "", true, err
	}

	// the buffer is never reused, so it's safe to give it away without copying
	return uf.B2S(decoded), true, nil
}

// Consumed returns how many bytes of the current content were already consumed.
func (r *Reader) Consumed() int {
	return r.consumed
}

// Buffered tells whether the current content is partially received.
func (r *Reader) Buffered() bool {
	return r.partial != nil
}

// Reset discards the partially received content along with the carried bytes of
// the character decoder.
func (r *Reader) Reset() {
	r.partial = nil
	r.consumed = 0
	r.decoder.Reset()
}

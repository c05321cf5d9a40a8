// Package charset provides a streaming character decoder, which may be fed with arbitrary
// slices of the input and keeps incomplete trailing sequences in between.
package charset

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/indigo-web/textframe/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	// carryLimit is the amount of bytes taken from the next feed in order to complete
	// the carried sequence. No supported charset has longer sequences.
	carryLimit = 2 * utf8.UTFMax
	// maxExpansion is the worst case of how many UTF-8 bytes a single input byte of any
	// non-UTF-8 charset may turn into (single-byte charsets mapping onto the BMP).
	maxExpansion = 3
)

// Decoder converts bytes of some charset into UTF-8 text. All the output is valid UTF-8.
type Decoder struct {
	name      string
	t         transform.Transformer
	expansion int
	carry     []byte
}

// New looks the charset up by any of its WHATWG labels, e.g. utf-8, latin1, shift_jis.
// UTF-8 input is validated rather than repaired, so malformed sequences result in an error.
func New(label string) (*Decoder, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownCharset, label)
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownCharset, label)
	}

	d := &Decoder{
		name:  name,
		carry: make([]byte, 0, 2*carryLimit),
	}

	if name == "utf-8" {
		d.t = encoding.UTF8Validator
		d.expansion = 1
	} else {
		d.t = enc.NewDecoder()
		d.expansion = maxExpansion
	}

	return d, nil
}

// Name returns the canonical name of the charset.
func (d *Decoder) Name() string {
	return d.name
}

// MaxBytesPerByte is the worst-case ratio between decoded and input lengths.
func (d *Decoder) MaxBytesPerByte() int {
	return d.expansion
}

// Pending returns the number of bytes held back until the next feed.
func (d *Decoder) Pending() int {
	return len(d.carry)
}

// Reset drops carried bytes and the transformer's state.
func (d *Decoder) Reset() {
	d.t.Reset()
	d.carry = d.carry[:0]
}

// Decode appends decoded src to dst. Unless final is set, an incomplete sequence at the
// end of src is held back and completed by the next call. If final is set, no bytes can
// be held back, therefore an incomplete sequence is an error. After an error the decoder
// must be Reset before being used again.
func (d *Decoder) Decode(dst, src []byte, final bool) ([]byte, error) {
	if held := len(d.carry); held > 0 {
		head := src[:min(len(src), carryLimit)]
		d.carry = append(d.carry, head...)

		out, n, err := d.transform(dst, d.carry, final && len(head) == len(src))
		dst = out
		if err != nil {
			return dst, err
		}

		switch {
		case n >= held:
			// the carried sequence is complete. The rest of head, if unconsumed, is
			// processed again as a part of src
			src = src[n-held:]
			d.carry = d.carry[:0]
		case len(head) == len(src):
			d.carry = d.carry[:copy(d.carry, d.carry[n:])]
			return dst, nil
		default:
			d.carry = append(d.carry[:copy(d.carry, d.carry[n:])], src[len(head):]...)
			return d.drain(dst, final)
		}
	}

	dst, n, err := d.transform(dst, src, final)
	if err != nil {
		return dst, err
	}

	d.carry = append(d.carry, src[n:]...)
	return dst, nil
}

func (d *Decoder) drain(dst []byte, final bool) ([]byte, error) {
	dst, n, err := d.transform(dst, d.carry, final)
	if err != nil {
		return dst, err
	}

	d.carry = d.carry[:copy(d.carry, d.carry[n:])]
	return dst, nil
}

// transform runs the transformer over the whole src, growing dst if needed. Returns the
// number of consumed bytes, which is less than len(src) only if the tail is incomplete.
func (d *Decoder) transform(dst, src []byte, atEOF bool) ([]byte, int, error) {
	var consumed int

	for {
		if len(dst) == cap(dst) {
			dst = slices.Grow(dst, max(d.expansion*(len(src)-consumed), utf8.UTFMax))
		}

		nDst, nSrc, err := d.t.Transform(dst[len(dst):cap(dst)], src[consumed:], atEOF)
		dst = dst[:len(dst)+nDst]
		consumed += nSrc

		switch err {
		case nil:
			return dst, consumed, nil
		case transform.ErrShortDst:
			dst = slices.Grow(dst, max(d.expansion*(len(src)-consumed), utf8.UTFMax))
		case transform.ErrShortSrc:
			if atEOF {
				return dst, consumed, fmt.Errorf(
					"%w: truncated %s sequence", errors.ErrCharacterDecode, d.name,
				)
			}

			return dst, consumed, nil
		default:
			return dst, consumed, fmt.Errorf("%w: %s", errors.ErrCharacterDecode, err)
		}
	}
}

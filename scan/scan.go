// Package scan looks for header boundaries inside a window, moving its cursor in place.
package scan

import (
	"bytes"

	"github.com/indigo-web/textframe/buffer"
	"github.com/indigo-web/textframe/errors"
	"github.com/indigo-web/textframe/window"
)

// Until appends everything before the first occurrence of delim to acc and moves the
// cursor right past the delimiter. If the window is exhausted before the delimiter is met,
// all the bytes are appended, the cursor is moved to the end and false is returned: the
// caller is expected to retry with the next window using the same accumulator.
func Until(delim byte, w *window.Window, acc *buffer.Buffer) (found bool, err error) {
	data := w.Bytes()
	end := bytes.IndexByte(data, delim)
	if end == -1 {
		if !acc.Append(data) {
			return false, errors.ErrHeaderTooLarge
		}

		w.Advance(len(data))
		return false, nil
	}

	if !acc.Append(data[:end]) {
		return false, errors.ErrHeaderTooLarge
	}

	w.Advance(end + 1)
	return true, nil
}

// SkipSpaces moves the cursor past leading spaces. Other whitespace characters are
// not skipped.
func SkipSpaces(w *window.Window) {
	data := w.Bytes()
	for i, c := range data {
		if c != ' ' {
			w.Advance(i)
			return
		}
	}

	w.Advance(len(data))
}

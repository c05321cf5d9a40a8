// Package window implements a read cursor over a byte slice delivered by the transport.
package window

// Window is a view over currently available input bytes. Reading moves the cursor
// forward; bytes behind the cursor are considered consumed. The underlying slice is
// never copied nor retained by the window beyond the next Reset.
type Window struct {
	data []byte
	pos  int
}

func New(data []byte) *Window {
	return &Window{data: data}
}

// Reset replaces the underlying data and moves the cursor to its beginning.
func (w *Window) Reset(data []byte) {
	w.data = data
	w.pos = 0
}

// Readable returns the number of unconsumed bytes.
func (w *Window) Readable() int {
	return len(w.data) - w.pos
}

func (w *Window) Empty() bool {
	return w.pos >= len(w.data)
}

// Bytes returns the unconsumed part of the window without moving the cursor.
func (w *Window) Bytes() []byte {
	return w.data[w.pos:]
}

// Peek returns the next byte without consuming it.
func (w *Window) Peek() (byte, bool) {
	if w.Empty() {
		return 0, false
	}

	return w.data[w.pos], true
}

// Advance moves the cursor n bytes forward, but never past the end.
func (w *Window) Advance(n int) {
	w.pos = min(w.pos+n, len(w.data))
}

// Next consumes and returns at most n bytes.
func (w *Window) Next(n int) []byte {
	n = min(n, w.Readable())
	chunk := w.data[w.pos : w.pos+n]
	w.pos += n

	return chunk
}

package textframe

import (
	"fmt"
	"strings"
	"testing"

	"github.com/indigo-web/textframe/config"
	"github.com/indigo-web/textframe/errors"
	"github.com/stretchr/testify/require"
)

func splitIntoParts(data []byte, n int) (parts [][]byte) {
	for i := 0; i < len(data); i += n {
		parts = append(parts, data[i:min(i+n, len(data))])
	}

	return parts
}

func frame(msgs ...string) string {
	var b strings.Builder
	for _, msg := range msgs {
		fmt.Fprintf(&b, "%d\n%s", len(msg), msg)
	}

	return b.String()
}

type collector struct {
	msgs []string
}

func (c *collector) OnMessage(msg string) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func newDecoder(t *testing.T, framing Framing) *Decoder {
	d, err := NewDecoder(config.Default(), framing)
	require.NoError(t, err)
	require.Equal(t, AwaitingHeader, d.State())

	return d
}

func testDifferentPartSizes(t *testing.T, framing func() Framing, stream string, want []string) {
	for i := 1; i <= len(stream); i++ {
		d := newDecoder(t, framing())
		c := new(collector)

		for _, part := range splitIntoParts([]byte(stream), i) {
			require.NoError(t, d.Feed(part, c.OnMessage), "part size: %d", i)
		}

		require.Equal(t, want, c.msgs, "part size: %d", i)
		require.Equal(t, AwaitingHeader, d.State())
		require.False(t, d.Pending())
	}
}

func TestDecoder(t *testing.T) {
	t.Run("two messages in one window", func(t *testing.T) {
		d := newDecoder(t, nil)
		c := new(collector)
		require.NoError(t, d.Feed([]byte("5\nhello5\nworld"), c.OnMessage))
		require.Equal(t, []string{"hello", "world"}, c.msgs)
		require.Equal(t, AwaitingHeader, d.State())
	})

	t.Run("different part sizes", func(t *testing.T) {
		msgs := []string{"hello", "", "Привет, мир!", "🌍", strings.Repeat("a", 300), "こんにちは"}
		testDifferentPartSizes(t, func() Framing { return nil }, frame(msgs...), msgs)
	})

	t.Run("CRLF after length", func(t *testing.T) {
		d := newDecoder(t, nil)
		c := new(collector)
		require.NoError(t, d.Feed([]byte("5\r\nhello"), c.OnMessage))
		// the length line ends with LF, so CR is a part of it and is ignored by the parser
		require.Equal(t, []string{"hello"}, c.msgs)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoder.Delimiter = ':'
		d, err := NewDecoder(cfg, nil)
		require.NoError(t, err)

		c := new(collector)
		require.NoError(t, d.Feed([]byte("5:hello3:abc"), c.OnMessage))
		require.Equal(t, []string{"hello", "abc"}, c.msgs)
	})

	t.Run("states", func(t *testing.T) {
		d := newDecoder(t, nil)
		c := new(collector)

		require.NoError(t, d.Feed([]byte("1"), c.OnMessage))
		require.Equal(t, AwaitingHeader, d.State())
		require.NoError(t, d.Feed([]byte("1\n"), c.OnMessage))
		require.Equal(t, AwaitingContent, d.State())
		require.False(t, d.Pending())
		require.NoError(t, d.Feed([]byte("Hello"), c.OnMessage))
		require.Equal(t, AwaitingContent, d.State())
		require.True(t, d.Pending())
		require.NoError(t, d.Feed([]byte(" world"), c.OnMessage))
		require.Equal(t, AwaitingHeader, d.State())
		require.False(t, d.Pending())
		require.Equal(t, []string{"Hello world"}, c.msgs)
	})

	t.Run("zero length at the end of window", func(t *testing.T) {
		d := newDecoder(t, nil)
		c := new(collector)
		require.NoError(t, d.Feed([]byte("2\nab0\n"), c.OnMessage))
		require.Equal(t, []string{"ab", ""}, c.msgs)
	})

	t.Run("teardown in the middle of content", func(t *testing.T) {
		d := newDecoder(t, nil)
		c := new(collector)
		require.NoError(t, d.Feed([]byte("10\nhello"), c.OnMessage))
		require.True(t, d.Pending())

		d.Close()
		require.False(t, d.Pending())
		require.Equal(t, Closed, d.State())
		require.ErrorIs(t, d.Feed([]byte("world"), c.OnMessage), errors.ErrClosed)
		require.Empty(t, c.msgs)

		// closing twice is fine
		d.Close()
	})

	t.Run("closed by callback", func(t *testing.T) {
		d := newDecoder(t, nil)
		var msgs []string
		err := d.Feed([]byte(frame("a", "b", "c")), func(msg string) error {
			msgs = append(msgs, msg)
			d.Close()
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, msgs)
	})
}

func TestDecoder_Negative(t *testing.T) {
	feed := func(t *testing.T, d *Decoder, data string) ([]string, error) {
		c := new(collector)
		err := d.Feed([]byte(data), c.OnMessage)
		return c.msgs, err
	}

	t.Run("malformed length", func(t *testing.T) {
		d := newDecoder(t, nil)
		msgs, err := feed(t, d, "5\nhellox\nworld")
		require.ErrorIs(t, err, errors.ErrMalformedNumber)
		// messages before the malformed one are already delivered
		require.Equal(t, []string{"hello"}, msgs)
		require.Equal(t, Closed, d.State())
	})

	t.Run("overflow", func(t *testing.T) {
		d := newDecoder(t, nil)
		_, err := feed(t, d, "99999999999999999999\n")
		require.ErrorIs(t, err, errors.ErrNumericOverflow)
	})

	t.Run("too large content", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoder.MaxContentLength = 4
		d, err := NewDecoder(cfg, nil)
		require.NoError(t, err)

		_, err = feed(t, d, "5\nhello")
		require.ErrorIs(t, err, errors.ErrContentTooLarge)
	})

	t.Run("too large header", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoder.HeaderSize.Maximal = 4
		d, err := NewDecoder(cfg, nil)
		require.NoError(t, err)

		_, err = feed(t, d, "123")
		require.NoError(t, err)
		_, err = feed(t, d, "45")
		require.ErrorIs(t, err, errors.ErrHeaderTooLarge)
	})

	t.Run("invalid content", func(t *testing.T) {
		d := newDecoder(t, nil)
		_, err := feed(t, d, "3\na\xffb")
		require.ErrorIs(t, err, errors.ErrCharacterDecode)
		require.Equal(t, Closed, d.State())
	})

	t.Run("callback error", func(t *testing.T) {
		d := newDecoder(t, nil)
		wantErr := fmt.Errorf("stop")
		err := d.Feed([]byte(frame("a", "b")), func(string) error {
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		require.Equal(t, Closed, d.State())
	})

	t.Run("unknown charset", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoder.Charset = "klingon"
		_, err := NewDecoder(cfg, nil)
		require.ErrorIs(t, err, errors.ErrUnknownCharset)
	})
}

func TestDecoder_Charset(t *testing.T) {
	cfg := config.Default()
	cfg.Decoder.Charset = "latin1"
	d, err := NewDecoder(cfg, nil)
	require.NoError(t, err)

	c := new(collector)
	require.NoError(t, d.Feed([]byte("4\ncaf\xe9"), c.OnMessage))
	require.Equal(t, []string{"café"}, c.msgs)
}

func BenchmarkDecoder(b *testing.B) {
	stream := []byte(frame(strings.Repeat("Hello, world! ", 10), "Привет, мир!", "short"))
	d, err := NewDecoder(config.Default(), nil)
	if err != nil {
		b.Fatal(err)
	}

	onMessage := func(string) error { return nil }
	b.SetBytes(int64(len(stream)))
	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		_ = d.Feed(stream, onMessage)
	}
}

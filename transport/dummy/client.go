// Package dummy provides scripted clients for driving decoding loops in tests.
package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/textframe/transport"
)

var _ transport.Client = new(Client)

// Client returns the windows it was initialised with one by one and io.EOF after them,
// unless set to loop. It also tracks all the written data.
type Client struct {
	closed  bool
	loop    bool
	pointer int
	written []byte
	data    [][]byte
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

// Split returns a client delivering data in windows of at most n bytes.
func Split(data []byte, n int) *Client {
	var windows [][]byte
	for i := 0; i < len(data); i += n {
		windows = append(windows, data[i:min(i+n, len(data))])
	}

	return NewMockClient(windows...)
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, io.EOF
	}

	if c.pointer >= len(c.data) {
		if !c.loop || len(c.data) == 0 {
			c.closed = true
			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Write(p []byte) (int, error) {
	c.written = append(c.written, p...)
	return len(p), nil
}

func (*Client) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Closed tells whether the client was closed, either explicitly or by reaching the end.
func (c *Client) Closed() bool {
	return c.closed
}

// LoopReads makes the client start over instead of returning io.EOF.
func (c *Client) LoopReads() *Client {
	c.loop = true
	return c
}

func (c *Client) Written() string {
	return string(c.written)
}

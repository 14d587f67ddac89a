package client

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nStangl/hashbase-client/protocol"
)

type (
	// KV is the key-value contract of a hashbase store
	KV interface {
		Set(key, value string) (string, error)
		Get(key string) (string, error)
		Delete(key string) (string, error)
	}

	// Client issues one command at a time over a single connection.
	// Operations are serialized, so a Client may be shared between
	// goroutines, but it never pipelines.
	Client struct {
		mu      sync.Mutex
		conn    *protocol.Conn
		framing protocol.Framing
		scanner *protocol.Scanner
	}

	Option func(*Client)
)

var _ KV = (*Client)(nil)

func WithFraming(f protocol.Framing) Option {
	return func(c *Client) {
		c.framing = f
	}
}

func New(options ...Option) *Client {
	c := Client{
		conn:    protocol.NewConn(),
		framing: protocol.Legacy,
	}

	for _, o := range options {
		o(&c)
	}

	if c.framing == protocol.Delimited {
		c.scanner = protocol.NewScanner(c.conn, protocol.MaxFrame)
	}

	return &c
}

// Dial creates a client and connects it.
func Dial(host string, port int, options ...Option) (*Client, error) {
	c := New(options...)

	if err := c.Connect(host, port); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) Connect(host string, port int) error {
	e := protocol.Endpoint{Host: host, Port: port}

	if err := c.conn.Connect(e); err != nil {
		return fmt.Errorf("failed to connect client to %s: %w", e, err)
	}

	return nil
}

func (c *Client) Set(key, value string) (string, error) {
	return c.do(protocol.Command{Verb: protocol.Set, Key: key, Value: value})
}

func (c *Client) Get(key string) (string, error) {
	return c.do(protocol.Command{Verb: protocol.Get, Key: key})
}

func (c *Client) Delete(key string) (string, error) {
	return c.do(protocol.Command{Verb: protocol.Del, Key: key})
}

// Info returns the server banner.
func (c *Client) Info() (string, error) {
	return c.do(protocol.Command{Verb: protocol.Inf})
}

// Len returns the number of keys as reported by the server.
func (c *Client) Len() (string, error) {
	return c.do(protocol.Command{Verb: protocol.Len})
}

// Clear removes every key from the store.
func (c *Client) Clear() (string, error) {
	return c.do(protocol.Command{Verb: protocol.Clr})
}

// Do sends a raw line, bypassing command encoding.
func (c *Client) Do(line string) (string, error) {
	return c.roundTrip(line, []byte(line+protocol.Terminator))
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) State() string {
	return c.conn.State()
}

func (c *Client) Framing() protocol.Framing {
	return c.framing
}

func (c *Client) String() string {
	return fmt.Sprintf("client(%s,%s,%s)", c.conn, c.State(), c.framing)
}

func (c *Client) do(cmd protocol.Command) (string, error) {
	b, err := protocol.Encode(cmd)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", cmd, err)
	}

	return c.roundTrip(cmd.Verb.String(), b)
}

func (c *Client) roundTrip(what string, b []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.Send(b); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", what, err)
	}

	raw, err := c.receive()
	if err != nil {
		return "", fmt.Errorf("failed to receive reply to %q: %w", what, err)
	}

	resp, err := protocol.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode reply to %q: %w", what, err)
	}

	log.Debugf("%s: %q -> %q", c.conn, what, resp)

	return resp, nil
}

func (c *Client) receive() ([]byte, error) {
	if c.scanner != nil {
		return c.scanner.Scan()
	}

	return c.conn.Receive(protocol.MaxFrame)
}

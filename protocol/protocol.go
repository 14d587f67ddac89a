package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/looplab/fsm"
	log "github.com/sirupsen/logrus"
)

type (
	// Remote host and port of a store
	Endpoint struct {
		Host string
		Port int
	}

	// Source of raw, unframed bytes
	Receiver interface {
		Receive(maxBytes int) ([]byte, error)
	}

	// Conn owns exactly one TCP stream to one endpoint.
	//
	// Send and Receive must not be called concurrently with each other
	// by more than one caller; Close may be called from any goroutine
	// and unblocks a pending Receive.
	Conn struct {
		mu       sync.Mutex
		endpoint Endpoint
		conn     *net.TCPConn
		machine  *fsm.FSM
	}

	// How a response is cut out of the byte stream
	Framing uint8
)

const (
	// One read of at most MaxFrame bytes, last two bytes stripped
	Legacy Framing = iota + 1
	// Reads are accumulated until a terminator is found
	Delimited
)

const (
	Terminator = "\r\n"
	MaxFrame   = 1024
	MaxPending = 1 << 20
)

var _ Receiver = (*Conn)(nil)

var (
	ErrResolution = errors.New("resolution_error")
	ErrConnection = errors.New("connection_error")
	ErrFraming    = errors.New("framing_error")
	ErrMisuse     = errors.New("protocol_misuse")
)

var framingKeys = [...]string{"legacy", "delimited"}

func (f Framing) String() string {
	if f == 0 || int(f) > len(framingKeys) {
		return fmt.Sprintf("framing(%d)", uint8(f))
	}

	return framingKeys[f-1]
}

func ParseFraming(s string) (Framing, error) {
	for i := range framingKeys {
		if framingKeys[i] == s {
			return Framing(i + 1), nil
		}
	}

	return Framing(0), fmt.Errorf("unknown framing %q", s)
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) Validate() error {
	if e.Host == "" {
		return fmt.Errorf("empty host: %w", ErrResolution)
	}

	if e.Port < 1 || e.Port > 65535 {
		return fmt.Errorf("port %d out of range: %w", e.Port, ErrResolution)
	}

	return nil
}

func NewConn() *Conn {
	c := Conn{}
	c.machine = newConnFSM(c.tag)

	return &c
}

func (c *Conn) tag() string {
	if c.endpoint.Host == "" {
		return "<unbound>"
	}

	return c.endpoint.String()
}

func (c *Conn) String() string {
	return c.tag()
}

func (c *Conn) State() string {
	return c.machine.Current()
}

func (c *Conn) Endpoint() Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.endpoint
}

// Connect opens the stream. A connection can be connected only once.
func (c *Conn) Connect(e Endpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.machine.Can(connectEvent) {
		return fmt.Errorf("cannot connect a %s connection: %w", c.machine.Current(), ErrMisuse)
	}

	if err := e.Validate(); err != nil {
		return err
	}

	const typ = "tcp"

	s, err := net.ResolveTCPAddr(typ, e.String())
	if err != nil {
		return fmt.Errorf("failed to resolve address %s: %v: %w", e, err, ErrResolution)
	}

	conn, err := net.DialTCP(typ, nil, s)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v: %w", e, err, ErrConnection)
	}

	c.endpoint = e
	c.conn = conn

	if err := c.machine.Event(context.Background(), connectEvent); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to transition %s via %s: %v: %w", e, connectEvent, err, ErrMisuse)
	}

	log.Debugf("connected to %s", e)

	return nil
}

func (c *Conn) Send(b []byte) error {
	conn, err := c.active()
	if err != nil {
		return err
	}

	if _, err := conn.Write(b); err != nil {
		c.fail()
		return fmt.Errorf("failed to write to socket %s: %v: %w", c, err, ErrConnection)
	}

	log.Debugf("sent %d bytes to %s", len(b), c)

	return nil
}

// Receive blocks until at least one byte is available and returns
// at most maxBytes of them. Responses are not reassembled.
func (c *Conn) Receive(maxBytes int) ([]byte, error) {
	if maxBytes < 1 {
		return nil, fmt.Errorf("receive size %d: %w", maxBytes, ErrMisuse)
	}

	conn, err := c.active()
	if err != nil {
		return nil, err
	}

	data := make([]byte, maxBytes)

	n, err := conn.Read(data)
	if n == 0 {
		c.fail()

		if err == nil || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("peer %s closed the connection: %w", c, ErrConnection)
		}

		return nil, fmt.Errorf("failed to read from socket %s: %v: %w", c, err, ErrConnection)
	}

	log.Debugf("received %d bytes from %s", n, c)

	return data[:n], nil
}

// Close releases the stream. Closing twice is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closeUnprotected()
}

func (c *Conn) active() (*net.TCPConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.machine.Current(); s != Connected {
		return nil, fmt.Errorf("connection is %s: %w", s, ErrMisuse)
	}

	return c.conn, nil
}

// fail moves the connection to Closed after a transport error.
func (c *Conn) fail() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.closeUnprotected(); err != nil {
		log.Debugf("failed to close broken connection %s: %v", c.tag(), err)
	}
}

func (c *Conn) closeUnprotected() error {
	if c.machine.Current() == Closed {
		return nil
	}

	if err := c.machine.Event(context.Background(), closeEvent); err != nil {
		return fmt.Errorf("failed to transition %s via %s: %w", c.tag(), closeEvent, err)
	}

	if c.conn == nil {
		return nil
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close conn to %s: %v: %w", c.tag(), err, ErrConnection)
	}

	return nil
}

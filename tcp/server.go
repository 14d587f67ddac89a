package tcp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/nStangl/hashbase-client/protocol"
)

// Server accepts line-protocol connections and answers every
// terminator-ended request with exactly one framed reply.
type Server struct {
	wg             sync.WaitGroup
	mu             sync.Mutex
	quit           chan struct{}
	conns          map[*net.TCPConn]struct{}
	handler        HandleFunc
	listener       *net.TCPListener
	closeFunc      CloseFunc
	connectFunc    ConnFunc
	disconnectFunc ConnFunc
	readChunk      int
	writeChunk     int
}

const defaultReadChunk = 512

func NewServer(address string, port int, options ...Option) (*Server, error) {
	s := Server{
		quit:      make(chan struct{}),
		conns:     make(map[*net.TCPConn]struct{}),
		readChunk: defaultReadChunk,
	}

	for _, o := range options {
		o(&s)
	}

	if s.handler == nil {
		return nil, errors.New("no handler configured")
	}

	const typ = "tcp"

	addr, err := net.ResolveTCPAddr(typ, net.JoinHostPort(address, fmt.Sprint(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address %s:%d: %w", address, port, err)
	}

	l, err := net.ListenTCP(typ, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %q: %w", addr, err)
	}

	s.listener = l

	return &s, nil
}

func (s *Server) Addr() *net.TCPAddr {
	return s.listener.Addr().(*net.TCPAddr)
}

func (s *Server) Serve() (<-chan struct{}, <-chan error) {
	var (
		don = make(chan struct{})
		ers = make(chan error, 10)
	)

	go func() {
		defer close(don)
		defer close(ers)

		log.Info("server is listening for incoming connections on ", s.listener.Addr())

	outer:
		for {
			conn, err := s.listener.AcceptTCP()
			if err != nil {
				select {
				case <-s.quit:
					log.Info("server is shutting down")
					s.wg.Wait()
					break outer
				default:
					select {
					case ers <- fmt.Errorf("failed to accept connection: %w", err):
					default:
					}

					time.Sleep(10 * time.Millisecond)
				}

				continue
			}

			if !s.track(conn) {
				_ = conn.Close()
				continue
			}

			s.wg.Add(1)

			go func() {
				defer s.wg.Done()
				s.handleConnection(conn)
			}()
		}

		if s.closeFunc != nil {
			if err := s.closeFunc(); err != nil {
				ers <- err
			}
		}
	}()

	return don, ers
}

func (s *Server) Close() error {
	s.mu.Lock()

	select {
	case <-s.quit:
		s.mu.Unlock()
		return nil
	default:
		close(s.quit)
	}

	var err error

	for c := range s.conns {
		err = multierr.Append(err, c.Close())
	}

	s.mu.Unlock()

	return multierr.Append(err, s.listener.Close())
}

func (s *Server) track(conn *net.TCPConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.quit:
		return false
	default:
		s.conns[conn] = struct{}{}
		return true
	}
}

func (s *Server) untrack(conn *net.TCPConn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn)
}

func (s *Server) handleConnection(conn *net.TCPConn) {
	addr := conn.RemoteAddr()

	log.Infof("handling connection on %s", addr)

	if s.connectFunc != nil {
		s.connectFunc(addr)
	}

	defer func() {
		s.untrack(conn)
		_ = conn.Close()

		if s.disconnectFunc != nil {
			s.disconnectFunc(addr)
		}
	}()

	var (
		buf  bytes.Buffer
		data = make([]byte, s.readChunk)
	)

	for {
		n, err := conn.Read(data)
		if n > 0 {
			buf.Write(data[:n])

			// Only a buffer that ends in a terminator is a complete request
			if bytes.HasSuffix(buf.Bytes(), []byte(protocol.Terminator)) {
				req := string(bytes.TrimRight(buf.Bytes(), protocol.Terminator))
				buf.Reset()

				if err := s.reply(conn, s.handler(req)); err != nil {
					log.Warnf("failed to reply to %s: %v", addr, err)
					return
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Infof("client disconnected: %s", addr)
			} else {
				log.Debugf("connection %s ended: %v", addr, err)
			}

			return
		}
	}
}

func (s *Server) reply(conn *net.TCPConn, payload string) error {
	frame := protocol.Frame(payload)

	if s.writeChunk <= 0 {
		_, err := conn.Write(frame)
		return err
	}

	for len(frame) > 0 {
		n := s.writeChunk
		if n > len(frame) {
			n = len(frame)
		}

		if _, err := conn.Write(frame[:n]); err != nil {
			return err
		}

		frame = frame[n:]
	}

	return nil
}

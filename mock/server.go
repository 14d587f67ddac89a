package mock

import (
	"fmt"
	"net"
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/nStangl/hashbase-client/protocol"
	"github.com/nStangl/hashbase-client/tcp"
)

// Server speaks the hashbase line protocol on top of a Store.
type Server struct {
	store    *Store
	server   *tcp.Server
	commands map[protocol.Verb]commandFunc
	done     <-chan struct{}
}

type commandFunc func(args []string) string

const Version = "0.0.1"

func New(cfg *Config) (*Server, error) {
	s := Server{store: NewStore()}

	s.commands = map[protocol.Verb]commandFunc{
		protocol.Inf: s.inf,
		protocol.Set: s.set,
		protocol.Get: s.get,
		protocol.Del: s.del,
		protocol.Len: s.len,
		protocol.Clr: s.clr,
	}

	opts := []tcp.Option{
		tcp.OnHandle(s.Handle),
		tcp.OnConnect(func(a net.Addr) { log.Debugf("connection accepted from %s", a) }),
		tcp.OnDisconnect(func(a net.Addr) { log.Debugf("client %s disconnected", a) }),
	}

	if cfg.WriteChunk > 0 {
		opts = append(opts, tcp.WithWriteChunk(cfg.WriteChunk))
	}

	ts, err := tcp.NewServer(cfg.Address, cfg.Port, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mock server: %w", err)
	}

	s.server = ts

	return &s, nil
}

// Start serves in the background and drains server errors into the log.
func (s *Server) Start() {
	verbs := maps.Keys(s.commands)
	slices.Sort(verbs)

	log.Infof("mock server knows %v", verbs)

	done, ers := s.server.Serve()
	s.done = done

	go func() {
		for err := range ers {
			log.Warnf("error from mock server: %v", err)
		}
	}()
}

// Done is closed once the server stopped after Close.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) Addr() *net.TCPAddr {
	return s.server.Addr()
}

func (s *Server) Port() int {
	return s.server.Addr().Port
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Close() error {
	return s.server.Close()
}

// Handle answers a single request line.
func (s *Server) Handle(req string) string {
	args, err := SplitArgs(req)
	if err != nil || len(args) == 0 {
		log.Debugf("malformed request %q: %v", req, err)
		return protocol.NotFound
	}

	v, ok := protocol.ParseVerb(args[0])
	if !ok {
		log.Debugf("unknown command %q", args[0])
		return protocol.NotFound
	}

	if len(args)-1 < v.Arity() {
		log.Debugf("%s expects %d arguments, got %d", v, v.Arity(), len(args)-1)
		return protocol.NotFound
	}

	return s.commands[v](args[1:])
}

func (s *Server) inf([]string) string {
	return "hashbase " + Version + " (mock)"
}

func (s *Server) set(args []string) string {
	s.store.Set(args[0], args[1])
	return protocol.OK
}

func (s *Server) get(args []string) string {
	v, ok := s.store.Get(args[0])
	if !ok {
		return protocol.NotFound
	}

	return v
}

func (s *Server) del(args []string) string {
	s.store.Del(args[0])
	return protocol.OK
}

func (s *Server) len([]string) string {
	return strconv.Itoa(s.store.Len())
}

func (s *Server) clr([]string) string {
	s.store.Clear()
	return protocol.OK
}

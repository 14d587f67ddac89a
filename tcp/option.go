package tcp

import "net"

type (
	Option func(*Server)

	CloseFunc func() error

	ConnFunc func(net.Addr)

	// HandleFunc answers one request with one payload.
	// Both come without their terminator.
	HandleFunc func(request string) string
)

func OnHandle(handleFunc HandleFunc) Option {
	return func(s *Server) {
		s.handler = handleFunc
	}
}

func OnConnect(connFunc ConnFunc) Option {
	return func(s *Server) {
		s.connectFunc = connFunc
	}
}

func OnDisconnect(connFunc ConnFunc) Option {
	return func(s *Server) {
		s.disconnectFunc = connFunc
	}
}

func OnShutdown(closeFunc CloseFunc) Option {
	return func(s *Server) {
		s.closeFunc = closeFunc
	}
}

// WithWriteChunk splits every reply into writes of at most n bytes.
func WithWriteChunk(n int) Option {
	return func(s *Server) {
		s.writeChunk = n
	}
}

// WithReadChunk sets the size of a single socket read.
func WithReadChunk(n int) Option {
	return func(s *Server) {
		s.readChunk = n
	}
}

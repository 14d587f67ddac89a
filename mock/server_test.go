package mock

import (
	"bufio"
	"net"
	"strings"
	"testing"
)

func newServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	if cfg.Address == "" {
		cfg.Address = "127.0.0.1"
	}

	s, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	s.Start()

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close mock server: %v", err)
		}

		<-s.Done()
	})

	return s
}

func TestHandle(t *testing.T) {
	s := newServer(t, Config{})

	steps := []struct {
		req      string
		expected string
	}{
		{`get "foo"`, "-1"},
		{`set "foo" "bar"`, "0"},
		{`get "foo"`, "bar"},
		{`set "maciej a." "czyzewski"`, "0"},
		{`get "maciej a."`, "czyzewski"},
		{"len", "2"},
		{`del "foo"`, "0"},
		{`get "foo"`, "-1"},
		{"clr", "0"},
		{"len", "0"},
		{"inf", "hashbase " + Version + " (mock)"},
		{"put foo bar", "-1"},
		{"set foo", "-1"},
		{`get "foo`, "-1"},
		{"", "-1"},
	}

	for _, step := range steps {
		if res := s.Handle(step.req); res != step.expected {
			t.Errorf("Handle(%q) = %q but expected %q", step.req, res, step.expected)
		}
	}
}

func TestServeOverTCP(t *testing.T) {
	s := newServer(t, Config{WriteChunk: 1})

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	defer conn.Close()

	r := bufio.NewReader(conn)

	for _, step := range [][2]string{
		{"set \"foo\" \"bar\"\r\n", "0"},
		{"get \"foo\"\r\n", "bar"},
	} {
		if _, err := conn.Write([]byte(step[0])); err != nil {
			t.Fatal(err)
		}

		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatal(err)
		}

		if res := strings.TrimSuffix(line, "\r\n"); res != step[1] {
			t.Errorf("reply to %q = %q but expected %q", step[0], res, step[1])
		}
	}

	if v, ok := s.Store().Get("foo"); !ok || v != "bar" {
		t.Errorf("store holds foo=(%q, %t)", v, ok)
	}
}

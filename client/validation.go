package client

import (
	"fmt"
	"strconv"

	"github.com/nStangl/hashbase-client/protocol"
)

func ValidateInput(in []string, n int) error {
	if len(in) != n {
		return fmt.Errorf("invalid format")
	}
	return nil
}

// ParseEndpoint turns `<host> <port>` positional arguments into an endpoint.
func ParseEndpoint(args []string) (protocol.Endpoint, error) {
	if err := ValidateInput(args, 2); err != nil {
		return protocol.Endpoint{}, fmt.Errorf("expected <host> <port>: %w", err)
	}

	port, err := strconv.Atoi(args[1])
	if err != nil {
		return protocol.Endpoint{}, fmt.Errorf("invalid port %q: %v: %w", args[1], err, protocol.ErrResolution)
	}

	e := protocol.Endpoint{Host: args[0], Port: port}

	if err := e.Validate(); err != nil {
		return protocol.Endpoint{}, err
	}

	return e, nil
}

// Expect compares a response against the wanted payload
// and returns a printable line either way.
func Expect(op, got, want, printPrefix string) (string, error) {
	msg := fmt.Sprintf("%s %s %s", printPrefix, op, got)

	if got != want {
		return msg, fmt.Errorf("%s returned %q, expected %q", op, got, want)
	}

	return msg, nil
}

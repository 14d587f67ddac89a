package protocol

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/slices"
)

type (
	// Command issued by a client to the store
	Command struct {
		Verb  Verb
		Key   string
		Value string
	}

	Verb uint8
)

const (
	Set Verb = iota + 1
	Get
	Del
	Inf
	Len
	Clr
)

// Payloads the hashbase server answers with by convention.
// The client never interprets them on its own.
const (
	OK       = "0"
	NotFound = "-1"
)

var verbKeys = [...]string{
	"set",
	"get",
	"del",
	"inf",
	"len",
	"clr",
}

func (v Verb) String() string {
	if v == 0 || int(v) > len(verbKeys) {
		return fmt.Sprintf("verb(%d)", uint8(v))
	}

	return verbKeys[v-1]
}

// Arity is the number of quoted arguments the verb carries on the wire.
func (v Verb) Arity() int {
	switch v {
	case Set:
		return 2
	case Get, Del:
		return 1
	default:
		return 0
	}
}

func ParseVerb(s string) (Verb, bool) {
	if i := slices.Index(verbKeys[:], s); i >= 0 {
		return Verb(i + 1), true
	}

	return Verb(0), false
}

func (c Command) String() string {
	return fmt.Sprintf("command(%s,%s,%s)", c.Verb, c.Key, c.Value)
}

// Validate reports ErrMisuse for commands that cannot be encoded.
func (c Command) Validate() error {
	if _, ok := ParseVerb(c.Verb.String()); !ok {
		return fmt.Errorf("unknown verb %s: %w", c.Verb, ErrMisuse)
	}

	if c.Verb.Arity() < 2 && c.Value != "" {
		return fmt.Errorf("%s takes no value: %w", c.Verb, ErrMisuse)
	}

	return nil
}

// Encode renders the command as `<verb> "<key>"[ "<value>"]\r\n`.
//
// Key and value are interpolated verbatim. Embedded double quotes or CRLF
// sequences make the frame ambiguous; this matches what existing hashbase
// servers expect and is left as is.
func Encode(c Command) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	b := bytes.NewBuffer(make([]byte, 0, len(c.Key)+len(c.Value)+12))

	b.WriteString(c.Verb.String())

	if c.Verb.Arity() >= 1 {
		b.WriteString(` "`)
		b.WriteString(c.Key)
		b.WriteByte('"')
	}

	if c.Verb.Arity() == 2 {
		b.WriteString(` "`)
		b.WriteString(c.Value)
		b.WriteByte('"')
	}

	b.WriteString(Terminator)

	return b.Bytes(), nil
}

// Decode strips the trailing terminator from a raw response.
// The final two bytes are removed unconditionally, whatever they are.
func Decode(raw []byte) (string, error) {
	if len(raw) < len(Terminator) {
		return "", fmt.Errorf("response of %d bytes has no room for a terminator: %w", len(raw), ErrFraming)
	}

	return string(raw[:len(raw)-len(Terminator)]), nil
}

// Frame appends the terminator to a payload.
func Frame(payload string) []byte {
	b := make([]byte, 0, len(payload)+len(Terminator))
	b = append(b, payload...)

	return append(b, Terminator...)
}

func IsNotFound(resp string) bool {
	return resp == NotFound
}

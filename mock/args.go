package mock

import (
	"errors"
	"strconv"
	"strings"
)

var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits a request line into arguments. Arguments may be
// double quoted, with \n \r \t \b \a \\ \" and \xHH escapes, or single
// quoted, where only \' is an escape. A closing quote must be followed
// by a space or the end of the line.
func SplitArgs(line string) ([]string, error) {
	var (
		args []string
		p    = 0
	)

	for {
		for p < len(line) && isSpace(line[p]) {
			p++
		}

		if p == len(line) {
			return args, nil
		}

		var (
			sb   strings.Builder
			done bool
		)

		switch line[p] {
		case '"':
			p++

			for !done {
				if p >= len(line) {
					return nil, ErrUnbalancedQuotes
				}

				c := line[p]

				switch {
				case c == '\\' && p+3 < len(line) && line[p+1] == 'x' && isHex(line[p+2]) && isHex(line[p+3]):
					b, _ := strconv.ParseUint(line[p+2:p+4], 16, 8)
					sb.WriteByte(byte(b))
					p += 4
				case c == '\\' && p+1 < len(line):
					sb.WriteByte(unescape(line[p+1]))
					p += 2
				case c == '"':
					if p+1 < len(line) && !isSpace(line[p+1]) {
						return nil, ErrUnbalancedQuotes
					}

					p++
					done = true
				default:
					sb.WriteByte(c)
					p++
				}
			}
		case '\'':
			p++

			for !done {
				if p >= len(line) {
					return nil, ErrUnbalancedQuotes
				}

				c := line[p]

				switch {
				case c == '\\' && p+1 < len(line) && line[p+1] == '\'':
					sb.WriteByte('\'')
					p += 2
				case c == '\'':
					if p+1 < len(line) && !isSpace(line[p+1]) {
						return nil, ErrUnbalancedQuotes
					}

					p++
					done = true
				default:
					sb.WriteByte(c)
					p++
				}
			}
		default:
			for p < len(line) && !isSpace(line[p]) {
				sb.WriteByte(line[p])
				p++
			}
		}

		args = append(args, sb.String())
	}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'a':
		return '\a'
	default:
		return c
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

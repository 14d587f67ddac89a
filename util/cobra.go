package util

import (
	"strings"

	"github.com/spf13/pflag"
)

// LogLevelArg returns the first positional argument that is not
// the value of a known flag. Binaries accept the log level that way.
func LogLevelArg(flags *pflag.FlagSet, args []string) (string, bool) {
	skipNext := false

	for _, a := range args {
		if skipNext {
			skipNext = false
			continue
		}

		if len(a) < 2 || a[0] != '-' {
			return a, true
		}

		var f *pflag.Flag

		if strings.HasPrefix(a, "--") {
			name, _, hasValue := strings.Cut(a[2:], "=")
			if f = flags.Lookup(name); f != nil && hasValue {
				continue
			}
		} else {
			f = flags.ShorthandLookup(a[len(a)-1:])
		}

		if f != nil && f.NoOptDefVal == "" {
			skipNext = true
		}
	}

	return "", false
}

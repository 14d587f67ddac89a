package util

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLogLevelArg(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.IntP("port", "p", 5555, "")
	flags.StringP("address", "a", "127.0.0.1", "")
	flags.BoolP("verbose", "v", false, "")

	tests := []struct {
		args  []string
		level string
		ok    bool
	}{
		{nil, "", false},
		{[]string{"debug"}, "debug", true},
		{[]string{"-p", "8080", "info"}, "info", true},
		{[]string{"--port", "8080", "warn"}, "warn", true},
		{[]string{"--port=8080", "error"}, "error", true},
		{[]string{"-v", "all"}, "all", true},
		{[]string{"-p", "8080"}, "", false},
	}

	for _, test := range tests {
		level, ok := LogLevelArg(flags, test.args)
		if level != test.level || ok != test.ok {
			t.Errorf("LogLevelArg(%v) = (%q, %t) but expected (%q, %t)", test.args, level, ok, test.level, test.ok)
		}
	}
}

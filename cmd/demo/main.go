package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/nStangl/hashbase-client/client"
	"github.com/nStangl/hashbase-client/protocol"
	"github.com/nStangl/hashbase-client/util"
)

const version = "0.0.1"

var cfg client.Config

var rootCmd = &cobra.Command{
	Use:     "demo <host> <port>",
	Short:   "Scripted set/get/delete run against a hashbase server",
	Version: version,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := util.SetLogLevel(cfg.Loglevel, os.Stdout); err != nil {
			log.Warn(err)
		}

		framing, err := protocol.ParseFraming(cfg.Framing)
		if err != nil {
			return err
		}

		e, err := client.ParseEndpoint(args)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true

		c, err := client.Dial(e.Host, e.Port, client.WithFraming(framing))
		if err != nil {
			return fmt.Errorf("cannot connect to the hashbase at %s: %w", e, err)
		}

		defer c.Close()

		return script(c, os.Stdout)
	},
}

type step struct {
	op       string
	key      string
	value    string
	expected string
}

// The expected payloads follow the hashbase server conventions
var steps = []step{
	{op: "set", key: "foo", value: "bar", expected: protocol.OK},
	{op: "set", key: "maciej a.", value: "czyzewski", expected: protocol.OK},
	{op: "set", key: "delete", value: "me", expected: protocol.OK},
	{op: "set", key: "plus", value: "minus", expected: protocol.OK},
	{op: "delete", key: "delete", expected: protocol.OK},
	{op: "get", key: "foo", expected: "bar"},
	{op: "get", key: "maciej a.", expected: "czyzewski"},
	{op: "get", key: "delete", expected: protocol.NotFound},
	{op: "get", key: "plus", expected: "minus"},
}

func init() {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)

	rootCmd.Flags().StringVarP(&cfg.Framing, "framing", "f", protocol.Legacy.String(), "Response framing, legacy or delimited")
	rootCmd.Flags().StringVarP(&cfg.Loglevel, "loglevel", "l", "info", "Loglevel, e.g., INFO, ALL, . . .")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// script runs every step and reports all mismatches at once.
// A transport error aborts the run.
func script(kv client.KV, out io.Writer) error {
	var result error

	for _, s := range steps {
		var (
			got string
			err error
		)

		switch s.op {
		case "set":
			got, err = kv.Set(s.key, s.value)
		case "get":
			got, err = kv.Get(s.key)
		case "delete":
			got, err = kv.Delete(s.key)
		}

		if err != nil {
			return multierr.Append(result, fmt.Errorf("%s %q failed: %w", s.op, s.key, err))
		}

		msg, err := client.Expect(fmt.Sprintf("%s %q", s.op, s.key), got, s.expected, ">")
		fmt.Fprintln(out, msg)

		result = multierr.Append(result, err)
	}

	if n := len(multierr.Errors(result)); n > 0 {
		log.Errorf("%d of %d steps returned unexpected payloads", n, len(steps))
	}

	return result
}

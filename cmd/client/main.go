package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nStangl/hashbase-client/client"
	"github.com/nStangl/hashbase-client/protocol"
	"github.com/nStangl/hashbase-client/util"
)

const version = "0.0.1"

var (
	cfg    client.Config
	prompt = ">>"
	echo   = "=>"
)

var rootCmd = &cobra.Command{
	Use:     "client <host> <port>",
	Short:   "Interactive hashbase shell",
	Long:    "Sends every typed line to a hashbase server and prints the reply.\nType 'logLevel <level>' to change verbosity and 'quit' to leave.",
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

		log.Infof("connected to %s", e)

		return run(c, os.Stdin, os.Stdout)
	},
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

func run(c *client.Client, stdin io.Reader, stdout io.Writer) error {
	var (
		in   = bufio.NewReader(stdin)
		quit = make(chan os.Signal, 1)
	)

	// Catch the interrupts (ctrl+c)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Fprintln(stdout, "\nWarning: Closing connection...")

		if err := c.Close(); err != nil {
			log.Errorf("failed to disconnect: %v", err)
		}

		os.Exit(0)
	}()

	defer func() {
		if err := c.Close(); err != nil {
			log.Errorf("failed to disconnect: %v", err)
		}
	}()

	for {
		fmt.Fprint(stdout, prompt, " ")

		s, err := in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(stdout)
				return nil
			}

			return fmt.Errorf("failed to read line: %w", err)
		}

		line := strings.TrimRight(s, "\r\n")
		p := strings.Fields(line)

		if len(p) > 0 {
			switch p[0] {
			case "quit":
				log.Info("Application exit!")
				return nil
			case "logLevel":
				promptLogLevel(p, stdout)
				continue
			}
		}

		r, err := c.Do(line)
		if err != nil {
			if errors.Is(err, protocol.ErrFraming) {
				log.Warn(err)
				continue
			}

			return err
		}

		fmt.Fprintln(stdout, echo, r)
	}
}

func promptLogLevel(p []string, stdout io.Writer) {
	if err := client.ValidateInput(p, 2); err != nil {
		log.Warn(err)
		return
	}

	prevLvl := log.GetLevel().String()

	if err := util.SetLogLevel(p[1], os.Stdout); err != nil {
		log.Warn(err)
		return
	}

	fmt.Fprintln(stdout, echo, "loglevel set from", prevLvl, "to", p[1])
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nStangl/hashbase-client/mock"
	"github.com/nStangl/hashbase-client/util"
)

var (
	cfg     mock.Config
	rootCmd = &cobra.Command{
		Use:     "server [loglevel]",
		Short:   "In-memory hashbase-compatible server for local testing",
		Version: mock.Version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if level, ok := util.LogLevelArg(cmd.Flags(), args); ok {
				cfg.Loglevel = level
			}

			if err := util.SetLogLevel(cfg.Loglevel, os.Stderr); err != nil {
				log.Warn(err)
			}

			s, err := mock.New(&cfg)
			if err != nil {
				return fmt.Errorf("failed to create mock server: %w", err)
			}

			s.Start()

			log.Infof("mock server %s listening on %s", mock.Version, s.Addr())

			// Catch the interrupts (ctrl+c)
			quit := make(chan os.Signal, 1)

			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			// Graceful shutdown in its own goroutine
			go func() {
				<-quit

				log.Info("server about to close")

				if err := s.Close(); err != nil {
					log.Errorf("error closing server: %v", err)
				}
			}()

			<-s.Done()

			log.Infof("served %d keys", s.Store().Len())

			return nil
		},
	}
)

func init() {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)

	rootCmd.PersistentFlags().IntVarP(&cfg.Port, "port", "p", 5555, "Sets the port of the server")
	rootCmd.PersistentFlags().StringVarP(&cfg.Address, "address", "a", "127.0.0.1", "Which address the server should listen to")
	rootCmd.PersistentFlags().StringVarP(&cfg.Loglevel, "loglevel", "o", "info", "Loglevel, e.g., INFO, ALL, . . .")
	rootCmd.PersistentFlags().IntVarP(&cfg.WriteChunk, "write-chunk", "w", 0, "Split replies into writes of at most this many bytes, 0 disables")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'\n", err)
		os.Exit(1)
	}
}

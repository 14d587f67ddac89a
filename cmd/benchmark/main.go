package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nStangl/hashbase-client/client"
	"github.com/nStangl/hashbase-client/protocol"
	"github.com/nStangl/hashbase-client/util"
)

type (
	Config struct {
		Workers    int
		Iterations int
		ValueSize  int
		Framing    string
		CSV        string
	}

	Result struct {
		write bool
		ok    bool
		dur   time.Duration
	}
)

var (
	cfg     Config
	rootCmd = &cobra.Command{
		Use:   "benchmark <host> <port>",
		Short: "Measures set/get round trips against a hashbase server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := client.ParseEndpoint(args)
			if err != nil {
				return err
			}

			framing, err := protocol.ParseFraming(cfg.Framing)
			if err != nil {
				return err
			}

			if cfg.Workers < 1 {
				return fmt.Errorf("need at least one worker, got %d", cfg.Workers)
			}

			cmd.SilenceUsage = true

			return benchmark(e, framing)
		},
	}
)

func init() {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", 4, "Number of concurrent clients")
	rootCmd.Flags().IntVarP(&cfg.Iterations, "iterations", "n", 1000, "Number of keys to set and get")
	rootCmd.Flags().IntVarP(&cfg.ValueSize, "value-size", "s", 16, "Size of every value in bytes")
	rootCmd.Flags().StringVarP(&cfg.Framing, "framing", "f", protocol.Legacy.String(), "Response framing, legacy or delimited")
	rootCmd.Flags().StringVar(&cfg.CSV, "csv", "", "Write every round trip to this CSV file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func benchmark(e protocol.Endpoint, framing protocol.Framing) error {
	// A fresh prefix keeps concurrent runs from reading each other's keys
	prefix := uuid.NewString()[:8]

	// Every key is owned by exactly one worker, so a get always
	// follows its set on the same connection
	owned := make([][]string, cfg.Workers)

	for i := 0; i < cfg.Iterations; i++ {
		k := prefix + "-" + strconv.Itoa(i)
		w := util.Partition(k, cfg.Workers)
		owned[w] = append(owned[w], k)
	}

	clients := make([]*client.Client, cfg.Workers)

	for i := range clients {
		c, err := client.Dial(e.Host, e.Port, client.WithFraming(framing))
		if err != nil {
			return fmt.Errorf("worker %d: %w", i, err)
		}

		defer c.Close()

		clients[i] = c
	}

	var (
		wg      sync.WaitGroup
		results = make(chan Result, 1000)
		value   = strings.Repeat("v", cfg.ValueSize)
	)

	log.Infof("running %d round trip pairs with %d workers (run %s, %s framing)", cfg.Iterations, cfg.Workers, prefix, framing)

	start := time.Now()

	for i := range clients {
		wg.Add(1)

		go func(c *client.Client, keys []string) {
			defer wg.Done()

			for _, k := range keys {
				s := time.Now()
				r, err := c.Set(k, value)
				results <- Result{write: true, ok: err == nil && r == protocol.OK, dur: time.Since(s)}

				if err != nil {
					log.Errorf("set %s failed, stopping worker: %v", k, err)
					return
				}

				s = time.Now()
				r, err = c.Get(k)
				results <- Result{ok: err == nil && r == value, dur: time.Since(s)}

				if err != nil {
					log.Errorf("get %s failed, stopping worker: %v", k, err)
					return
				}
			}
		}(clients[i], owned[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		reads, writes []float64
		failed        int
		rows          [][]string
	)

	for r := range results {
		if !r.ok {
			failed++
		}

		if r.write {
			writes = append(writes, float64(r.dur.Microseconds()))
		} else {
			reads = append(reads, float64(r.dur.Microseconds()))
		}

		if cfg.CSV != "" {
			rows = append(rows, []string{strconv.FormatBool(r.write), strconv.FormatBool(r.ok), strconv.FormatInt(r.dur.Microseconds(), 10)})
		}
	}

	log.Infof("finished in %s, %d unexpected replies", time.Since(start), failed)

	const maxWidth = 5

	if len(reads) > 0 {
		fmt.Println("Showing histogram for reads (in microseconds)")
		_ = histogram.Fprint(os.Stdout, histogram.Hist(5, reads), histogram.Linear(maxWidth))
	}

	if len(writes) > 0 {
		fmt.Println("Showing histogram for writes (in microseconds)")
		_ = histogram.Fprint(os.Stdout, histogram.Hist(5, writes), histogram.Linear(maxWidth))
	}

	if cfg.CSV != "" {
		if err := util.WriteCSV(cfg.CSV, []string{"write", "ok", "duration_us"}, rows); err != nil {
			return err
		}
	}

	return nil
}

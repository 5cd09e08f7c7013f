package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/dustin/go-humanize"
	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/metailurini/ordered/btree"
	"github.com/metailurini/ordered/internal/workload"
	"github.com/metailurini/ordered/skiplist"
)

const (
	defaultOps          = 1000000
	defaultKeys         = 100000
	defaultWritePercent = 50
	defaultLogLevel     = "info"
)

// config defines the configuration options for orderedbench.
type config struct {
	Workload      string `long:"workload" description:"Key distribution: uniform, ascending or zipf"`
	Ops           int    `long:"ops" description:"Operations to run against each container"`
	Keys          int    `long:"keys" description:"Size of the key space"`
	WritePercent  int    `long:"write-percent" description:"Percentage of operations that are puts or deletes"`
	Containers    string `long:"containers" description:"Comma separated containers to run, or all"`
	Degree        int    `long:"degree" description:"B-tree branching factor"`
	MaxLevel      int    `long:"max-level" description:"Skip list maximum level"`
	Seed          uint64 `long:"seed" description:"Seed for keys, levels and priorities; 0 picks one from the clock"`
	Budget        string `long:"budget" description:"Memory budget per container, such as 64MiB; empty means unbounded"`
	MetricsListen string `long:"metrics-listen" description:"Serve Prometheus metrics on this address, such as :9100"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	// Derived from the options above by loadConfig.
	distribution workload.Distribution
	names        []string
	budgetBytes  uint64
	logLevel     btclog.Level
}

// loadConfig starts from the defaults, parses the command line over them and
// validates the result.
func loadConfig() (*config, []string, error) {
	cfg := config{
		Workload:     "uniform",
		Ops:          defaultOps,
		Keys:         defaultKeys,
		WritePercent: defaultWritePercent,
		Containers:   "all",
		Degree:       btree.DefaultDegree,
		MaxLevel:     skiplist.MaxLevel,
		DebugLevel:   defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}
	return &cfg, remainingArgs, nil
}

func (cfg *config) validate() error {
	var err error
	if cfg.distribution, err = workload.ParseDistribution(cfg.Workload); err != nil {
		return errors.WithMessage(err, "loadConfig")
	}
	if cfg.Ops <= 0 {
		return errors.Errorf("loadConfig: --ops must be positive, got %d", cfg.Ops)
	}
	if cfg.Keys <= 0 {
		return errors.Errorf("loadConfig: --keys must be positive, got %d", cfg.Keys)
	}
	if cfg.WritePercent < 0 || cfg.WritePercent > 100 {
		return errors.Errorf("loadConfig: --write-percent must lie in [0, 100], got %d", cfg.WritePercent)
	}
	if cfg.Degree < 3 {
		return errors.Errorf("loadConfig: --degree must be at least 3, got %d", cfg.Degree)
	}
	if cfg.MaxLevel < 1 || cfg.MaxLevel > skiplist.MaxLevel {
		return errors.Errorf("loadConfig: --max-level must lie in [1, %d], got %d", skiplist.MaxLevel, cfg.MaxLevel)
	}

	if cfg.Containers == "all" {
		cfg.names = containerNames()
	} else {
		for _, name := range strings.Split(cfg.Containers, ",") {
			name = strings.TrimSpace(name)
			if _, ok := containers[name]; !ok {
				return errors.Errorf("loadConfig: unknown container %q, want one of %s",
					name, strings.Join(containerNames(), ", "))
			}
			cfg.names = append(cfg.names, name)
		}
	}

	if cfg.Budget != "" {
		if cfg.budgetBytes, err = humanize.ParseBytes(cfg.Budget); err != nil {
			return errors.Wrapf(err, "loadConfig: --budget %q", cfg.Budget)
		}
	}

	level, ok := btclog.LevelFromString(cfg.DebugLevel)
	if !ok {
		return errors.Errorf("loadConfig: unknown debug level %q", cfg.DebugLevel)
	}
	cfg.logLevel = level
	return nil
}

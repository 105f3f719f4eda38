package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/okian/kickbase-analytics/internal/config"
	"github.com/okian/kickbase-analytics/internal/fixtures"
	"github.com/okian/kickbase-analytics/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers     = 180
	defaultManagers    = 10
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// The seed default comes from the shared service configuration.
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		seed         = flag.Int64("seed", cfg.FixtureSeed, "Generator seed")
		players      = flag.Int("players", defaultPlayers, "Number of players in the league")
		managers     = flag.Int("managers", defaultManagers, "Number of managers in the league")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Write the generated league to this JSON file")
		generateOnly = flag.Bool("generate-only", false, "Only write the league, do not contact the service")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if *generateOnly {
		if err := generate(*seed, *players, *managers, *outputFile); err != nil {
			logger.Get().Error(ctx, "generation failed", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	run := &fixtures.Config{
		BaseURL:    *baseURL,
		Seed:       *seed,
		Players:    *players,
		Managers:   *managers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
	}
	if _, err := fixtures.Run(ctx, run); err != nil {
		logger.Get().Error(ctx, "fixture run failed", logger.Error(err))
		os.Exit(1)
	}
}

func generate(seed int64, players, managers int, output string) error {
	l, err := fixtures.NewGenerator(fixtures.NewRand(seed)).League(players, managers)
	if err != nil {
		return err
	}
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

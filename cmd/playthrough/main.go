package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/awakening/internal/config"
	"github.com/jwebster45206/awakening/internal/logger"
	"github.com/jwebster45206/awakening/internal/playthrough"
	"github.com/jwebster45206/awakening/internal/services/events"
	"github.com/jwebster45206/awakening/internal/storage"
)

var (
	caseFlag = flag.String("case", "", "Name of playthrough to run (from <DATA_DIR>/playthroughs/), without .json")
	errFlag  = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")
	runsFlag = flag.Int("runs", 1, "Number of times to run each playthrough")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, closer, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = closer.Close() // Ignore error in defer
	}()

	mode := playthrough.ErrorHandlingMode(*errFlag)
	if mode != playthrough.ErrorHandlingContinue && mode != playthrough.ErrorHandlingExit {
		fmt.Fprintf(os.Stderr, "Invalid -err value %q (use 'continue' or 'exit')\n", *errFlag)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := playthrough.NewRunner(storage.NewFileStorage(cfg.DataDir, log), log)
	runner.InteractionDistance = cfg.InteractionDistance
	runner.ErrorHandlingMode = mode

	// With a cue bus configured, every run is also published so a cue
	// listener can follow along. Publishing is synchronous so no cue is
	// dropped behind a full queue; failures are counted in the summary.
	var bus *events.SyncPublisher
	if cfg.RedisURL != "" {
		rdb, err := events.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not connect to Redis at REDIS_URL: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = rdb.Close() // Ignore error in defer
		}()
		sessionID := uuid.New()
		bus = events.NewBroadcaster(rdb, sessionID, log).Synchronous(ctx)
		runner.Cues = bus
		fmt.Printf("Publishing cues on %s\n", events.ChannelFor(sessionID))
	}

	files, err := discoverPlaythroughs(filepath.Join(cfg.DataDir, "playthroughs"), *caseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to discover playthroughs: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No playthroughs found\n")
		os.Exit(1)
	}

	failed := 0
	total := 0
	for _, file := range files {
		suite, err := playthrough.LoadSuite(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed++
			total++
			continue
		}
		for run := 1; run <= *runsFlag; run++ {
			total++
			res, _ := runner.RunSuite(ctx, suite)
			printResult(res, run, *runsFlag)
			if !res.Passed() {
				failed++
			}
		}
	}

	fmt.Printf("\n%d/%d runs passed\n", total-failed, total)
	if bus != nil {
		fmt.Printf("%d cues published, %d failed\n", bus.Sent(), bus.Failed())
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func discoverPlaythroughs(dir, only string) ([]string, error) {
	if only != "" {
		return []string{filepath.Join(dir, strings.TrimSuffix(only, ".json")+".json")}, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func printResult(res playthrough.RunResult, run, runs int) {
	status := "PASS"
	if !res.Passed() {
		status = "FAIL"
	}
	label := res.SuiteName
	if runs > 1 {
		label = fmt.Sprintf("%s (run %d/%d)", res.SuiteName, run, runs)
	}
	fmt.Printf("%s  %s  [%s]\n", status, label, res.Duration.Round(time.Microsecond))

	if res.Error != nil {
		fmt.Printf("      error: %v\n", res.Error)
	}
	for _, sr := range res.Results {
		if sr.Success {
			continue
		}
		fmt.Printf("    ✗ %s\n", sr.StepName)
		for _, f := range sr.Failures {
			fmt.Printf("        %s\n", f)
		}
		if sr.Error != nil {
			fmt.Printf("        error: %v\n", sr.Error)
		}
	}
}

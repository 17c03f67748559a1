package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"cluster_slots/internal/config/env"
	"cluster_slots/internal/engine"
	"cluster_slots/pkg/rng"

	"go.uber.org/zap"
)

func main() {
	var (
		spins  = flag.Int("spins", 100000, "paid spins to simulate")
		stake  = flag.Int("stake", 10, "stake per paid spin")
		seed   = flag.Uint64("seed", 0, "rng seed, 0 draws from crypto/rand")
		config = flag.String("config", env.GameConfigPath(), "game rules yaml")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := env.NewGameConfigFromYAML(*config)
	if err != nil {
		logger.Fatal("load game config", zap.String("path", *config), zap.Error(err))
	}

	src := rng.Default()
	if *seed != 0 {
		src = rng.NewSeeded(*seed)
	}
	eng, err := engine.New(cfg.Rules(), src)
	if err != nil {
		logger.Fatal("build engine", zap.Error(err))
	}

	logger.Info("simulating", zap.Int("spins", *spins), zap.Int("stake", *stake), zap.Uint64("seed", *seed))
	rep, err := engine.Simulate(eng, *spins, *stake)
	if err != nil {
		logger.Fatal("simulate", zap.Error(err))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "spins\t%d (paid %d, free %d)\n", rep.Spins, rep.PaidSpins, rep.FreeSpins)
	fmt.Fprintf(tw, "wagered\t%d\n", rep.Wagered)
	fmt.Fprintf(tw, "returned\t%d\n", rep.Returned)
	fmt.Fprintf(tw, "rtp\t%.4f\n", rep.RTP)
	fmt.Fprintf(tw, "hit rate\t%.4f\n", rep.HitRate)
	fmt.Fprintf(tw, "bonus triggers\t%d (1 in %.1f paid spins)\n", rep.Triggers, perTrigger(rep))
	fmt.Fprintf(tw, "retriggers\t%d\n", rep.Retriggers)
	fmt.Fprintf(tw, "paying cascades\t%d\n", rep.Cascades)
	fmt.Fprintf(tw, "meter fills\t%d\n", rep.MeterFills)
	fmt.Fprintf(tw, "win mean / sd\t%.2f / %.2f\n", rep.Win.Mean, rep.Win.StdDev)
	fmt.Fprintf(tw, "win p50 / p90 / p99\t%.0f / %.0f / %.0f\n", rep.Win.P50, rep.Win.P90, rep.Win.P99)
	fmt.Fprintf(tw, "win max\t%d\n", rep.Win.Max)
	_ = tw.Flush()
}

func perTrigger(rep engine.Report) float64 {
	if rep.Triggers == 0 {
		return 0
	}
	return float64(rep.PaidSpins) / float64(rep.Triggers)
}

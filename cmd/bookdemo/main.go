package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"orderbookx.com/internal/engine"
	"orderbookx.com/internal/sim"
	"orderbookx.com/pkg/config"
	"orderbookx.com/pkg/logger"
	"orderbookx.com/pkg/metrics"
	"orderbookx.com/pkg/safe"
)

type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Mode     string `mapstructure:"mode"` // demo / stress / all
	Engine   struct {
		MailboxSize int `mapstructure:"mailbox_size"`
		BatchMax    int `mapstructure:"batch_max"`
		BusSize     int `mapstructure:"bus_size"`
	} `mapstructure:"engine"`
	Stress sim.StressConfig `mapstructure:"stress"`
}

func main() {
	var cfg Config
	if _, err := config.LoadAndWatch("bookdemo", &cfg); err != nil {
		// 没有配置文件就全走默认值
		fmt.Printf("config not loaded, using defaults: %v\n", err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Mode == "" {
		cfg.Mode = "all"
	}

	logger.Init("bookdemo", cfg.LogLevel)
	defer logger.Sync()
	metrics.MustRegister()

	ctx := context.Background()

	switch cfg.Mode {
	case "demo":
		sim.RunAll(ctx)
	case "stress":
		runStress(ctx, cfg)
	case "all":
		sim.RunAll(ctx)
		runStress(ctx, cfg)
	default:
		logger.Error(ctx, "unknown mode", zap.String("mode", cfg.Mode))
		os.Exit(2)
	}
}

func runStress(ctx context.Context, cfg Config) {
	a := engine.NewBookActor(engine.ActorConfig{
		MailboxSize: cfg.Engine.MailboxSize,
		BatchMax:    cfg.Engine.BatchMax,
		BusSize:     cfg.Engine.BusSize,
	}, logger.Log)

	actorCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	safe.Go(func() { a.Run(actorCtx) })

	rep, err := sim.RunStress(ctx, a, cfg.Stress)
	if err != nil {
		logger.Fatal(ctx, "stress failed", zap.Error(err))
	}

	fmt.Printf("\n=== STRESS REPORT (run %s) ===\n", rep.RunID)
	fmt.Printf("orders submitted:  %d (busy retries %d)\n", rep.Submitted, rep.Busy)
	fmt.Printf("cancels / amends:  %d / %d\n", rep.Cancels, rep.Amends)
	fmt.Printf("trades executed:   %d (dropped events %d)\n", rep.Trades, rep.DroppedTrades)
	fmt.Printf("snapshots taken:   %d (version changes seen %d)\n", rep.Snapshots, rep.VersionChanges)
	fmt.Printf("elapsed:           %v (%.0f orders/s)\n",
		rep.Elapsed, float64(rep.Submitted)/rep.Elapsed.Seconds())
	fmt.Printf("final: orders=%d bid_levels=%d ask_levels=%d version=%d\n",
		rep.Final.Orders, rep.Final.BidLevels, rep.Final.AskLevels, rep.Final.Version)
	fmt.Print(sim.RenderBook(rep.Final.Bids, rep.Final.Asks, rep.Final.BestBid, rep.Final.BestAsk, rep.Final.Spread))
}

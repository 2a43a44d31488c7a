package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/nats-io/nats.go"

	"github.com/drawlab/lottogen/internal/config"
	"github.com/drawlab/lottogen/internal/events"
	"github.com/drawlab/lottogen/internal/generator"
	"github.com/drawlab/lottogen/internal/logger"
	"github.com/drawlab/lottogen/internal/lottery"
	"github.com/drawlab/lottogen/internal/store"
)

// --- CLI definitions --- //

type CLI struct {
	Pick  PickCmd  `cmd:"" help:"Generate number combinations."`
	Fetch FetchCmd `cmd:"" help:"Download and cache the draw history."`
	Stats StatsCmd `cmd:"" help:"Print the statistics profile derived from history."`
	Watch WatchCmd `cmd:"" help:"Print picks published over NATS."`
}

type PickCmd struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
	Refresh    bool   `help:"Re-download history before generating." name:"refresh"`
	Sets       int    `help:"Number of combinations to generate." default:"1"`
	Seed       uint64 `help:"RNG seed, 0 means random." default:"0"`
	Debug      bool   `help:"Enable debug logs and per-attempt rejection reasons."`
}

type FetchCmd struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
	Debug      bool   `help:"Enable debug logs."`
}

type StatsCmd struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
	Debug      bool   `help:"Enable debug logs."`
}

type WatchCmd struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
}

func (c *PickCmd) Run() error {
	return runPick(c.ConfigPath, c.Refresh, c.Sets, c.Seed, c.Debug)
}

func (c *FetchCmd) Run() error {
	return runFetch(c.ConfigPath, c.Debug)
}

func (c *StatsCmd) Run() error {
	return runStats(c.ConfigPath, c.Debug)
}

func (c *WatchCmd) Run() error {
	return runWatch(c.ConfigPath)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lottogen"),
		kong.Description("History-shaped lottery combination generator."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// --- commands --- //

func setup(configPath string, debug bool) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
	return cfg, nil
}

func runPick(configPath string, refresh bool, sets int, seed uint64, debug bool) error {
	cfg, err := setup(configPath, debug)
	if err != nil {
		return err
	}
	ctx := context.Background()

	st, err := store.Open(cfg.Storage.Directory)
	if err != nil {
		return err
	}
	defer st.Close()

	history, err := loadHistory(ctx, cfg, st, refresh)
	if err != nil {
		return err
	}
	logger.Info("History loaded", "game", cfg.Game.Name, "draws", history.Len())

	genCfg := cfg.GeneratorConfig(debug)
	profile, err := generator.BuildProfile(history, genCfg)
	if err != nil {
		return err
	}
	if !profile.Derived {
		logger.Warn("History below minimum, using permissive defaults", "draws", history.Len())
	}

	var emitter *events.Emitter
	if cfg.NATS.URL != "" {
		emitter, err = events.NewEmitter(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	engine, err := generator.NewEngine(history, profile, genCfg, rng)
	if err != nil {
		return err
	}

	for i := 0; i < sets; i++ {
		out := engine.Generate(ctx)
		if !out.Accepted {
			logger.Error("Generation exhausted", "attempts", out.Attempts)
			printTally(out.Rejections)
			return fmt.Errorf("no valid combination within %d attempts; relax the configuration", out.Attempts)
		}

		fmt.Printf("\nCombination: %s\n", out.Pick.Draw)
		fmt.Printf("Probability Score: %s%%\n", out.Pick.Score.StringFixed(2))
		if debug {
			fmt.Printf("Attempts: %d\n", out.Attempts)
			printTally(out.Rejections)
		}

		if emitter != nil {
			if err := emitter.EmitPick(cfg.Game.Name, out.Pick); err != nil {
				logger.Error("Publish pick failed", "err", err)
			}
		}
	}
	return nil
}

func loadHistory(ctx context.Context, cfg config.Config, st *store.HistoryStore, refresh bool) (*lottery.History, error) {
	if !refresh {
		history, err := st.LoadHistory(cfg.Game.Name)
		if err == nil {
			if at, err := st.FetchedAt(cfg.Game.Name); err == nil {
				logger.Debug("Using cached history", "fetched_at", at)
			}
			return history, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		logger.Info("No cached history, downloading", "url", cfg.Source.URL)
	}

	fetcher := lottery.NewFetcher(cfg.Source.URL, cfg.Rules(), cfg.Source.Timeout)
	history, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.SaveHistory(cfg.Game.Name, history.Draws()); err != nil {
		return nil, err
	}
	return history, nil
}

func runFetch(configPath string, debug bool) error {
	cfg, err := setup(configPath, debug)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Storage.Directory)
	if err != nil {
		return err
	}
	defer st.Close()

	history, err := loadHistory(context.Background(), cfg, st, true)
	if err != nil {
		return err
	}
	logger.Info("History cached", "game", cfg.Game.Name, "draws", history.Len())
	if history.Len() > 0 {
		logger.Info("Most recent draw", "numbers", history.At(0).String())
	}
	return nil
}

func runStats(configPath string, debug bool) error {
	cfg, err := setup(configPath, debug)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Storage.Directory)
	if err != nil {
		return err
	}
	defer st.Close()

	history, err := loadHistory(context.Background(), cfg, st, false)
	if err != nil {
		return err
	}
	profile, err := generator.BuildProfile(history, cfg.GeneratorConfig(debug))
	if err != nil {
		return err
	}
	printProfile(profile, history.Len())
	return nil
}

func printProfile(p *generator.Profile, draws int) {
	fmt.Printf("Draws analyzed: %d\n", draws)
	if !p.Derived {
		fmt.Println("History below minimum; profile uses permissive defaults")
	}

	fmt.Println("\nOdd/even distribution (odd numbers per draw):")
	for odd := 0; odd <= p.Rules.MainCount; odd++ {
		count := p.OddCountDist[odd]
		pct := 0.0
		if draws > 0 {
			pct = float64(count) / float64(draws) * 100
		}
		marker := " "
		if p.OddCountsAllowed[odd] {
			marker = "*"
		}
		fmt.Printf("  %s %d odd / %d even : %d draws (%.2f%%)\n", marker, odd, p.Rules.MainCount-odd, count, pct)
	}

	fmt.Printf("\nSum range: %d - %d\n", p.SumLow, p.SumHigh)
	fmt.Printf("Max gap between consecutive numbers: %d\n", p.MaxGap)
	if p.Rules.SpecialCount > 1 {
		fmt.Printf("Max gap between special numbers: %d\n", p.MaxSpecialGap)
	}

	fmt.Println("\nMax multiples allowed per base:")
	bases := make([]int, 0, len(p.MaxMultiples))
	for base := range p.MaxMultiples {
		bases = append(bases, base)
	}
	sort.Ints(bases)
	for _, base := range bases {
		fmt.Printf("  %2d: %d\n", base, p.MaxMultiples[base])
	}

	fmt.Println("\nCluster count bounds:")
	for i, iv := range p.ClusterIntervals {
		b := p.ClusterBounds[i]
		fmt.Printf("  [%2d-%2d]: %d - %d\n", iv.Start, iv.End, b.Min, b.Max)
	}

	if p.Derived {
		fmt.Printf("\nAverage pattern score: %s%%\n", p.AvgPatternScore.StringFixed(2))
		fmt.Printf("Best achievable pattern score: %s%%\n", p.BestPatternScore.StringFixed(2))
	}
}

func printTally(rejections map[string]int) {
	if len(rejections) == 0 {
		return
	}
	fmt.Println("\nRejections by check:")
	names := make([]string, 0, len(rejections))
	for name := range rejections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-26s: %d\n", name, rejections[name])
	}
}

func runWatch(configPath string) error {
	cfg, err := setup(configPath, false)
	if err != nil {
		return err
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required for watch")
	}

	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("NATS connect: %w", err)
	}
	defer nc.Close()

	subject := events.PickSubject(cfg.NATS.SubjectPrefix)
	logger.Info("Subscribed to", "subject", subject)

	_, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		var event events.PickEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Unmarshal error", "err", err)
			return
		}
		logger.Info("Received pick", "game", event.Game, "pick", event.Pick.String())
	})
	if err != nil {
		return fmt.Errorf("NATS subscribe: %w", err)
	}

	waitForShutdown()
	return nil
}

func waitForShutdown() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

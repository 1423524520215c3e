package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/fps-hud/internal/config"
	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/logging"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	"github.com/KirkDiggler/fps-hud/internal/services"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

var weapons = []string{"rifle", "shotgun", "pistol", "sniper"}

type options struct {
	rate        int
	duration    time.Duration
	pooled      bool
	producers   int
	burst       int
	sampleEvery time.Duration
	store       bool
}

type summary struct {
	RunID   string
	Pooled  bool
	Emitted uint64
	Stats   pool.Stats
	Samples int
	Elapsed time.Duration
}

func main() {
	configPath := flag.String("config", "", "optional config file (yaml or json)")
	rate := flag.Int("rate", 100, "kill events per second across all producers")
	duration := flag.Duration("duration", 5*time.Second, "how long to run")
	pooled := flag.Bool("pooled", true, "recycle kill feed entries through the pool")
	producers := flag.Int("producers", 4, "concurrent event producers")
	burst := flag.Int("burst", 3, "kills emitted back to back per producer tick")
	store := flag.Bool("store", false, "save pool samples to the configured report store")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	repo, closeRepo, err := services.ConnectReports(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect report store", zap.Error(err))
	}
	defer closeRepo()

	provider, err := services.NewProvider(&services.ProviderConfig{
		Config:  cfg,
		Logger:  logger,
		Reports: repo,
	})
	if err != nil {
		logger.Fatal("Failed to create provider", zap.Error(err))
	}

	opts := options{
		rate:        *rate,
		duration:    *duration,
		pooled:      *pooled,
		producers:   *producers,
		burst:       *burst,
		sampleEvery: time.Second,
		store:       *store,
	}

	result, err := run(ctx, opts, provider)
	if err != nil {
		logger.Fatal("Stress run failed", zap.Error(err))
	}
	printSummary(os.Stdout, result)
}

func (o options) validate() error {
	if o.rate <= 0 {
		return errors.InvalidArgument("rate must be positive")
	}
	if o.duration <= 0 {
		return errors.InvalidArgument("duration must be positive")
	}
	if o.producers <= 0 {
		return errors.InvalidArgument("producers must be positive")
	}
	if o.burst <= 0 {
		return errors.InvalidArgument("burst must be positive")
	}
	if o.sampleEvery <= 0 {
		return errors.InvalidArgument("sample interval must be positive")
	}
	return nil
}

// tick is how often each producer fires a burst so that all producers together
// approach the requested rate
func (o options) tick() time.Duration {
	tick := time.Duration(float64(time.Second) * float64(o.burst*o.producers) / float64(o.rate))
	if tick < time.Millisecond {
		tick = time.Millisecond
	}
	return tick
}

// run drives bursty kill events through a kill feed and samples its allocator
func run(ctx context.Context, opts options, provider *services.Provider) (*summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	feed, err := provider.NewKillFeed(!opts.pooled)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kill feed")
	}
	defer feed.Close()

	runID := provider.IDs.New()
	logger := provider.Logger.With(zap.String("run_id", runID), zap.Bool("pooled", opts.pooled))
	logger.Info("Starting stress run",
		zap.Int("rate", opts.rate),
		zap.Duration("duration", opts.duration),
		zap.Int("producers", opts.producers))

	var emitted atomic.Uint64
	samples := 0
	start := time.Now()

	sample := func(ctx context.Context) error {
		samples++
		if !opts.store {
			return nil
		}
		return provider.Reports.SavePoolStats(ctx, &reports.PoolSnapshot{
			RunID:     runID,
			Pool:      "kill_feed",
			Pooled:    opts.pooled,
			Stats:     feed.Stats(),
			Emitted:   emitted.Load(),
			ElapsedMS: time.Since(start).Milliseconds(),
		})
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	for i := 0; i < opts.producers; i++ {
		producer := i
		g.Go(func() error {
			ticker := time.NewTicker(opts.tick())
			defer ticker.Stop()

			player := standard.Actor{ID: "player-" + strconv.Itoa(producer), Name: "Player" + strconv.Itoa(producer), Team: "blue"}
			n := 0
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					for b := 0; b < opts.burst; b++ {
						n++
						provider.Bus.EmitEvent(provider.Engine.CreateCombatEvent(events.EnemyKilled, standard.Combat{
							Source:   &player,
							Target:   &standard.Actor{ID: fmt.Sprintf("enemy-%d-%d", producer, n), Name: "Grunt", Type: "grunt"},
							Weapon:   weapons[n%len(weapons)],
							Headshot: n%5 == 0,
							Distance: float64(10 + n%40),
						}))
						emitted.Add(1)
					}
				}
			}
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(opts.sampleEvery)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := sample(gctx); err != nil {
					return errors.Wrap(err, "failed to save pool sample")
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// final sample after every producer stopped
	if err := sample(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save final pool sample")
	}

	result := &summary{
		RunID:   runID,
		Pooled:  opts.pooled,
		Emitted: emitted.Load(),
		Stats:   feed.Stats(),
		Samples: samples,
		Elapsed: time.Since(start),
	}

	logger.Info("Stress run finished",
		zap.Uint64("emitted", result.Emitted),
		zap.Int("created", result.Stats.Created),
		zap.Int("acquired", result.Stats.Acquired))

	return result, nil
}

func printSummary(w io.Writer, s *summary) {
	mode := "unpooled"
	if s.Pooled {
		mode = "pooled"
	}
	fmt.Fprintf(w, "run %s (%s) over %s\n", s.RunID, mode, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  emitted:   %d\n", s.Emitted)
	fmt.Fprintf(w, "  created:   %d\n", s.Stats.Created)
	fmt.Fprintf(w, "  acquired:  %d\n", s.Stats.Acquired)
	fmt.Fprintf(w, "  released:  %d\n", s.Stats.Released)
	fmt.Fprintf(w, "  in use:    %d\n", s.Stats.InUse)
	fmt.Fprintf(w, "  available: %d\n", s.Stats.Available)
	if s.Stats.Acquired > 0 {
		fmt.Fprintf(w, "  reuse:     %.1f%%\n", 100*(1-float64(s.Stats.Created)/float64(s.Stats.Acquired)))
	}
	fmt.Fprintf(w, "  samples:   %d\n", s.Samples)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/studiopulse/pulse/pkg/auth"
	"github.com/studiopulse/pulse/pkg/cache"
	"github.com/studiopulse/pulse/pkg/config"
	"github.com/studiopulse/pulse/pkg/digest"
	"github.com/studiopulse/pulse/pkg/engagement"
	"github.com/studiopulse/pulse/pkg/llm"
	"github.com/studiopulse/pulse/pkg/poller"
	"github.com/studiopulse/pulse/pkg/repository"
	"github.com/studiopulse/pulse/server"
)

// Opts with all CLI options
type Opts struct {
	Config    string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Listen    string `short:"l" long:"listen" env:"LISTEN" description:"listen address override"`
	WatchUser string `long:"watch-user" description:"poll and log unread notifications for a user instead of serving"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting pulse version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, &opts); err != nil {
		log.Printf("[ERROR] pulse failed: %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts *Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	repos, err := repository.New(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("open repositories: %w", err)
	}
	defer repos.Close()

	if opts.WatchUser != "" {
		return watch(ctx, repos, cfg, opts.WatchUser)
	}

	// digest worker producing ai_insight notifications
	if cfg.Digest.Enabled {
		advisor := llm.NewAdvisor(cfg.LLM)
		worker := digest.NewWorker(
			&digestStats{notifications: repos.Notification, engagement: repos.Engagement},
			repos.Notification,
			advisor,
			digest.Config{
				Interval:   cfg.Digest.Interval,
				Lookback:   cfg.Digest.Lookback,
				MaxWorkers: cfg.Digest.MaxWorkers,
			},
		)
		worker.Start(ctx)
		defer worker.Stop()
	}

	srv := server.New(server.Config{
		Config: cfg,
		Store:  repos.Notification,
		Engagement: &engagementService{
			Recorder:  engagement.NewRecorder(repos.Notification, repos.Engagement),
			Estimator: engagement.NewEstimator(repos.Engagement),
		},
		Auth:        auth.NewService(cfg.Auth),
		UnreadCache: cache.New[int](cfg.Cache.TTL, nil),
		Version:     revision,
		Debug:       opts.Debug,
		PageSize:    cfg.Poller.PageSize,
	})

	return srv.Run(ctx)
}

// watch runs a polling subscription for one user and logs state changes,
// a diagnostic stand-in for the portal's polling client
func watch(ctx context.Context, repos *repository.Repositories, cfg *config.Config, userID string) error {
	p := poller.New(repos.Notification, poller.Config{
		Interval:   cfg.Poller.Interval,
		PageSize:   cfg.Poller.PageSize,
		MaxBackoff: cfg.Poller.MaxBackoff,
	})
	if err := p.Start(ctx, userID); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	defer p.Stop()

	ticker := time.NewTicker(cfg.Poller.Interval)
	defer ticker.Stop()

	lastStatus, lastCount := poller.StatusDisconnected, -1
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			status, count := p.Status(), len(p.Notifications())
			if status != lastStatus || count != lastCount {
				log.Printf("[INFO] user %s: %d unread, status %s", userID, count, status)
				lastStatus, lastCount = status, count
			}
		}
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

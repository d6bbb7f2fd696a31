package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/gamewatch/internal/alert"
	"github.com/hazz-dev/gamewatch/internal/checker"
	"github.com/hazz-dev/gamewatch/internal/config"
	"github.com/hazz-dev/gamewatch/internal/probe"
	"github.com/hazz-dev/gamewatch/internal/render"
	"github.com/hazz-dev/gamewatch/internal/runner"
)

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if debug {
		cfg.Debug = true
	}

	logger := newLogger(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return executeChecks(ctx, cmd.OutOrStdout(), cfg, logger, noRender)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func executeChecks(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, noRender bool) error {
	prober := probe.New(cfg.Probe.UserAgent)

	var renderer checker.Renderer = render.NewChrome(cfg.Probe.UserAgent)
	if noRender {
		renderer = render.Disabled{}
	}

	factory := func(svc config.Service) (checker.Checker, error) {
		return checker.New(svc, prober, renderer)
	}
	notifier := alert.NewWebhook(cfg.Notify.URL, cfg.Notify.Timeout.Duration, logger)
	retry := checker.RetryPolicy{MaxRetries: cfg.Retry.MaxRetries, Delay: cfg.Retry.Delay.Duration}

	run := runner.New(cfg.Services, factory, retry, notifier, logger)
	reports, err := run.Run(ctx)

	writeTable(out, reports)
	return err
}

func writeTable(out io.Writer, reports []runner.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tKIND\tSTATUS\tRESPONSE\tDETAIL")
	for _, r := range reports {
		resp := "—"
		if r.Result.Elapsed > 0 {
			resp = r.Result.Elapsed.Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Service,
			r.Kind,
			r.Result.Status(),
			resp,
			r.Result.Detail,
		)
	}
	w.Flush()
}

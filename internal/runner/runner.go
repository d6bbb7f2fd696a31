// Package runner executes every configured service check once,
// collects the outcomes and dispatches a notification when anything
// failed. It is built for one-shot invocation from an external
// scheduler rather than for running as a daemon.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazz-dev/gamewatch/internal/checker"
	"github.com/hazz-dev/gamewatch/internal/config"
)

// ErrOutage reports that at least one service check failed. Callers
// map it to a distinct exit status so schedulers can react to outages
// without parsing output.
var ErrOutage = errors.New("outage detected")

// alertTitle is the fixed title for outage notifications.
const alertTitle = "Gaming outage detected"

// CheckerFactory builds a Checker for one service.
type CheckerFactory func(svc config.Service) (checker.Checker, error)

// Notifier delivers an outage summary to the operator's channel.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

// Report is the final outcome for one service after retries.
type Report struct {
	Service string
	Kind    string
	Result  checker.Result
}

// Runner drives one monitoring pass over the configured services.
type Runner struct {
	services []config.Service
	factory  CheckerFactory
	retry    checker.RetryPolicy
	notifier Notifier
	logger   *slog.Logger
}

// New creates a Runner. Pass nil logger to use the default logger.
func New(services []config.Service, factory CheckerFactory, retry checker.RetryPolicy, notifier Notifier, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		services: services,
		factory:  factory,
		retry:    retry,
		notifier: notifier,
		logger:   logger,
	}
}

// Run checks every service in configuration order, one at a time, and
// returns a report per service. When any check ultimately failed it
// sends a single notification listing the failures and returns
// ErrOutage; a healthy pass sends nothing.
func (r *Runner) Run(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(r.services))
	var failures []string

	for _, svc := range r.services {
		rep := r.runOne(ctx, svc)
		reports = append(reports, rep)

		r.logger.Info("check completed",
			"service", rep.Service,
			"status", rep.Result.Status(),
			"detail", rep.Result.Detail,
			"elapsed", rep.Result.Elapsed,
		)

		if !rep.Result.Ok {
			failures = append(failures, fmt.Sprintf("%s: %s", rep.Service, rep.Result.Detail))
		}
	}

	if len(failures) > 0 {
		r.notifier.Notify(ctx, alertTitle, bulleted(failures))
		return reports, ErrOutage
	}

	r.logger.Info("all services healthy", "services", len(reports))
	return reports, nil
}

func (r *Runner) runOne(ctx context.Context, svc config.Service) Report {
	rep := Report{Service: svc.Name, Kind: svc.Kind}

	chk, err := r.factory(svc)
	if err != nil {
		rep.Result = checker.Result{Detail: fmt.Sprintf("creating checker: %v", err)}
		return rep
	}

	rep.Result = checker.WithRetries(ctx, r.retry, func(ctx context.Context) checker.Result {
		attemptCtx, cancel := context.WithTimeout(ctx, svc.Timeout.Duration)
		defer cancel()
		return chk.Check(attemptCtx)
	})
	return rep
}

func bulleted(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "- " + line
	}
	return strings.Join(out, "\n")
}

package runner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hazz-dev/gamewatch/internal/checker"
	"github.com/hazz-dev/gamewatch/internal/config"
	"github.com/hazz-dev/gamewatch/internal/runner"
)

// stubChecker replays canned results, repeating the last one.
type stubChecker struct {
	results []checker.Result
	calls   int
}

func (s *stubChecker) Check(ctx context.Context) checker.Result {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i]
}

// fakeNotifier records every notification it receives.
type fakeNotifier struct {
	titles   []string
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, title, message string) {
	f.titles = append(f.titles, title)
	f.messages = append(f.messages, message)
}

func testService(name string) config.Service {
	return config.Service{
		Name:    name,
		Kind:    config.KindAPI,
		Target:  "https://example.com/" + name,
		Timeout: config.Duration{Duration: time.Second},
	}
}

func factoryFor(t *testing.T, checkers map[string]checker.Checker) runner.CheckerFactory {
	t.Helper()
	return func(svc config.Service) (checker.Checker, error) {
		c, ok := checkers[svc.Name]
		if !ok {
			return nil, fmt.Errorf("no checker for %q", svc.Name)
		}
		return c, nil
	}
}

func TestRun_AllHealthy(t *testing.T) {
	services := []config.Service{testService("api"), testService("store"), testService("psn")}
	checkers := map[string]checker.Checker{
		"api":   &stubChecker{results: []checker.Result{{Ok: true, Detail: "HTTP 200"}}},
		"store": &stubChecker{results: []checker.Result{{Ok: true, Detail: "HTTP 200"}}},
		"psn":   &stubChecker{results: []checker.Result{{Ok: true, Detail: "no issues reported"}}},
	}
	notifier := &fakeNotifier{}

	r := runner.New(services, factoryFor(t, checkers), checker.RetryPolicy{}, notifier, nil)
	reports, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	for _, rep := range reports {
		if !rep.Result.Ok {
			t.Errorf("expected %s healthy, got detail %q", rep.Service, rep.Result.Detail)
		}
	}
	if len(notifier.titles) != 0 {
		t.Errorf("healthy run must not notify, got %d notifications", len(notifier.titles))
	}
}

func TestRun_ReportsFollowConfigOrder(t *testing.T) {
	services := []config.Service{testService("api"), testService("store"), testService("psn")}
	checkers := map[string]checker.Checker{
		"api":   &stubChecker{results: []checker.Result{{Ok: true}}},
		"store": &stubChecker{results: []checker.Result{{Ok: true}}},
		"psn":   &stubChecker{results: []checker.Result{{Ok: true}}},
	}

	r := runner.New(services, factoryFor(t, checkers), checker.RetryPolicy{}, &fakeNotifier{}, nil)
	reports, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"api", "store", "psn"}
	for i, rep := range reports {
		if rep.Service != want[i] {
			t.Errorf("report %d: expected %q, got %q", i, want[i], rep.Service)
		}
	}
}

func TestRun_SingleFailureNotifiesOnce(t *testing.T) {
	services := []config.Service{testService("api"), testService("store"), testService("psn")}
	checkers := map[string]checker.Checker{
		"api":   &stubChecker{results: []checker.Result{{Ok: true}}},
		"store": &stubChecker{results: []checker.Result{{Detail: "key text \"steam\" not found"}}},
		"psn":   &stubChecker{results: []checker.Result{{Ok: true}}},
	}
	notifier := &fakeNotifier{}

	r := runner.New(services, factoryFor(t, checkers), checker.RetryPolicy{}, notifier, nil)
	reports, err := r.Run(context.Background())
	if !errors.Is(err, runner.ErrOutage) {
		t.Fatalf("expected ErrOutage, got %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("failed check must not stop the run, got %d reports", len(reports))
	}
	if len(notifier.titles) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(notifier.titles))
	}
	if notifier.titles[0] != "Gaming outage detected" {
		t.Errorf("unexpected title: %q", notifier.titles[0])
	}

	msg := notifier.messages[0]
	lines := strings.Split(msg, "\n")
	if len(lines) != 1 {
		t.Errorf("expected exactly one bullet line, got %d: %q", len(lines), msg)
	}
	if !strings.HasPrefix(lines[0], "- store:") {
		t.Errorf("bullet should reference the failed service: %q", lines[0])
	}
}

func TestRun_MultipleFailuresInOneMessage(t *testing.T) {
	services := []config.Service{testService("api"), testService("store")}
	checkers := map[string]checker.Checker{
		"api":   &stubChecker{results: []checker.Result{{Detail: "connection refused"}}},
		"store": &stubChecker{results: []checker.Result{{Detail: "expected status 200, got 502"}}},
	}
	notifier := &fakeNotifier{}

	r := runner.New(services, factoryFor(t, checkers), checker.RetryPolicy{}, notifier, nil)
	_, err := r.Run(context.Background())
	if !errors.Is(err, runner.ErrOutage) {
		t.Fatalf("expected ErrOutage, got %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected a single aggregated notification, got %d", len(notifier.messages))
	}
	msg := notifier.messages[0]
	if !strings.Contains(msg, "- api: connection refused") {
		t.Errorf("message should list the api failure: %q", msg)
	}
	if !strings.Contains(msg, "- store: expected status 200, got 502") {
		t.Errorf("message should list the store failure: %q", msg)
	}
}

func TestRun_RetriesRecoverBeforeNotifying(t *testing.T) {
	services := []config.Service{testService("api")}
	flaky := &stubChecker{results: []checker.Result{
		{Detail: "connection refused"},
		{Ok: true, Detail: "HTTP 200"},
	}}
	notifier := &fakeNotifier{}

	policy := checker.RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}
	r := runner.New(services, factoryFor(t, map[string]checker.Checker{"api": flaky}), policy, notifier, nil)
	reports, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reports[0].Result.Ok {
		t.Errorf("expected recovery on retry, got detail %q", reports[0].Result.Detail)
	}
	if flaky.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", flaky.calls)
	}
	if len(notifier.titles) != 0 {
		t.Errorf("recovered run must not notify, got %d notifications", len(notifier.titles))
	}
}

func TestRun_FactoryErrorIsAFailedCheck(t *testing.T) {
	services := []config.Service{testService("api")}
	notifier := &fakeNotifier{}

	r := runner.New(services, factoryFor(t, nil), checker.RetryPolicy{}, notifier, nil)
	reports, err := r.Run(context.Background())
	if !errors.Is(err, runner.ErrOutage) {
		t.Fatalf("expected ErrOutage, got %v", err)
	}
	if reports[0].Result.Ok {
		t.Error("expected a failed report")
	}
	if !strings.Contains(reports[0].Result.Detail, "creating checker") {
		t.Errorf("detail should explain the factory failure: %q", reports[0].Result.Detail)
	}
}

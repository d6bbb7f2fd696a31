package checker

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hazz-dev/gamewatch/internal/config"
)

// pageChecker verifies that an HTML page responds with HTTP 200 and
// contains a known piece of text. Matching a substring rather than any
// DOM structure keeps the check robust to markup churn, at the cost of
// being sensitive to copy changes.
type pageChecker struct {
	svc    config.Service
	prober Prober
}

func newPageChecker(svc config.Service, p Prober) *pageChecker {
	return &pageChecker{svc: svc, prober: p}
}

func (c *pageChecker) Check(ctx context.Context) Result {
	res := c.prober.Probe(ctx, c.svc.Target)
	if !res.Reachable {
		return Result{Detail: res.Err, Elapsed: res.Elapsed}
	}
	if res.StatusCode != http.StatusOK {
		return Result{
			Detail:  fmt.Sprintf("expected status %d, got %d", http.StatusOK, res.StatusCode),
			Elapsed: res.Elapsed,
		}
	}
	if res.Err != "" {
		return Result{Detail: res.Err, Elapsed: res.Elapsed}
	}

	body := strings.ToLower(string(res.Body))
	want := strings.ToLower(c.svc.ExpectText)
	if !strings.Contains(body, want) {
		return Result{
			Detail:  fmt.Sprintf("key text %q not found", c.svc.ExpectText),
			Elapsed: res.Elapsed,
		}
	}
	return Result{
		Ok:      true,
		Detail:  fmt.Sprintf("HTTP %d, key text %q found", res.StatusCode, c.svc.ExpectText),
		Elapsed: res.Elapsed,
	}
}

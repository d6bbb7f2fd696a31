package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hazz-dev/gamewatch/internal/config"
)

// apiChecker verifies that a JSON API endpoint responds with HTTP 200
// and that the payload looks like the API we know. The endpoint's
// exact schema is not documented, so the shape test is deliberately
// loose: any one of the configured keys being present counts as
// healthy.
type apiChecker struct {
	svc    config.Service
	prober Prober
}

func newAPIChecker(svc config.Service, p Prober) *apiChecker {
	return &apiChecker{svc: svc, prober: p}
}

func (c *apiChecker) Check(ctx context.Context) Result {
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

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return Result{
			Detail:  fmt.Sprintf("parsing response: %v", err),
			Elapsed: res.Elapsed,
		}
	}

	for _, key := range c.svc.ExpectKeys {
		if _, ok := payload[key]; ok {
			return Result{
				Ok:      true,
				Detail:  fmt.Sprintf("HTTP %d, found key %q", res.StatusCode, key),
				Elapsed: res.Elapsed,
			}
		}
	}
	return Result{Detail: "unexpected JSON structure", Elapsed: res.Elapsed}
}

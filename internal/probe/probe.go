// Package probe performs plain HTTP GET requests against service
// endpoints. A probe never fails with an error: network problems,
// timeouts and bad responses all come back inside the Result so
// callers can classify them.
package probe

import (
	"context"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of a response body a probe will read.
const maxBodyBytes = 4 << 20

// Result captures the outcome of a single HTTP probe.
type Result struct {
	// Reachable is true when a response arrived, regardless of status.
	Reachable bool
	// StatusCode is the HTTP status code, 0 when unreachable.
	StatusCode int
	// Body holds up to maxBodyBytes of the response body.
	Body []byte
	// Err describes why the probe failed, empty on success.
	Err string
	// Elapsed is the round-trip time for the request.
	Elapsed time.Duration
}

// Client issues HTTP probes with a fixed user agent.
type Client struct {
	client    *http.Client
	userAgent string
}

// New creates a probe client. The client carries no timeout of its
// own; each request is bounded by its context, so a per-service
// deadline is never capped by a shared one.
func New(userAgent string) *Client {
	return &Client{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

// Probe GETs the given URL and returns what happened. The returned
// Result is always usable; transport failures are reported through
// Result.Err rather than an error value.
func (c *Client) Probe(ctx context.Context, url string) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Err: "creating request: " + err.Error(), Elapsed: time.Since(start)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Err: err.Error(), Elapsed: time.Since(start)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{
			Reachable:  true,
			StatusCode: resp.StatusCode,
			Err:        "reading body: " + err.Error(),
			Elapsed:    time.Since(start),
		}
	}

	return Result{
		Reachable:  true,
		StatusCode: resp.StatusCode,
		Body:       body,
		Elapsed:    time.Since(start),
	}
}

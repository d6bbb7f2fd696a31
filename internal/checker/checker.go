// Package checker decides whether a monitored service is up. Each
// check kind interprets a service's configuration against what the
// network returned: an API check inspects JSON shape, a page check
// looks for a known substring, and a rendered check classifies the
// browser-rendered text of a status page.
package checker

import (
	"context"
	"fmt"

	"github.com/hazz-dev/gamewatch/internal/config"
	"github.com/hazz-dev/gamewatch/internal/probe"
)

// Checker performs a single service check.
type Checker interface {
	Check(ctx context.Context) Result
}

// Prober issues HTTP GET requests on behalf of checks.
type Prober interface {
	Probe(ctx context.Context, url string) probe.Result
}

// Renderer loads a page in a browser and returns its visible text.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// New returns the appropriate Checker for the given service configuration.
func New(svc config.Service, p Prober, r Renderer) (Checker, error) {
	switch svc.Kind {
	case config.KindAPI:
		return newAPIChecker(svc, p), nil
	case config.KindPage:
		return newPageChecker(svc, p), nil
	case config.KindRendered:
		return newRenderedChecker(svc, r), nil
	default:
		return nil, fmt.Errorf("unknown check kind %q", svc.Kind)
	}
}

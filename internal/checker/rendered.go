package checker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazz-dev/gamewatch/internal/config"
)

// renderedChecker loads a status page whose content is built
// client-side, so the page has to be rendered in a browser before its
// text means anything. The rendered text is then classified against
// the service's phrase lists.
type renderedChecker struct {
	svc      config.Service
	renderer Renderer
}

func newRenderedChecker(svc config.Service, r Renderer) *renderedChecker {
	return &renderedChecker{svc: svc, renderer: r}
}

func (c *renderedChecker) Check(ctx context.Context) Result {
	start := time.Now()
	text, err := c.renderer.Render(ctx, c.svc.Target)
	elapsed := time.Since(start)
	if err != nil {
		return Result{Detail: err.Error(), Elapsed: elapsed}
	}
	ok, detail := Classify(text, c.svc.Phrases)
	return Result{Ok: ok, Detail: detail, Elapsed: elapsed}
}

// Classify decides whether rendered status-page text describes a
// healthy service. Outage phrases always win over healthy phrases.
// When neither kind matches, occurrences of the fallback token count
// as a weaker healthy signal. Text matching nothing at all is treated
// as down; the classifier is conservative about the unknown.
func Classify(text string, phrases config.PhraseSet) (bool, string) {
	lower := strings.ToLower(text)

	for _, phrase := range phrases.Down {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return false, fmt.Sprintf("status page reports %q", phrase)
		}
	}
	for _, phrase := range phrases.Up {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true, fmt.Sprintf("status page reports %q", phrase)
		}
	}
	if token := phrases.FallbackToken; token != "" {
		if n := strings.Count(lower, strings.ToLower(token)); n > 0 {
			return true, fmt.Sprintf("%d components show %q", n, token)
		}
	}
	return false, "could not confirm healthy status"
}

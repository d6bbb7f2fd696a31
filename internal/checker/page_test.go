package checker_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/hazz-dev/gamewatch/internal/config"
	"github.com/hazz-dev/gamewatch/internal/probe"
)

func newPageService(t *testing.T) config.Service {
	t.Helper()
	return config.Service{
		Name:       "Test Store",
		Kind:       config.KindPage,
		Target:     "https://store.example.com",
		ExpectText: "steam",
	}
}

func TestPageChecker_TextPresent(t *testing.T) {
	p := &fakeProber{result: probe.Result{
		Reachable:  true,
		StatusCode: http.StatusOK,
		Body:       []byte(`<html><title>Welcome to Steam</title></html>`),
	}}
	c := newChecker(t, newPageService(t), p, nil)

	res := c.Check(context.Background())
	if !res.Ok {
		t.Errorf("expected ok, got detail %q", res.Detail)
	}
}

func TestPageChecker_MatchIsCaseInsensitive(t *testing.T) {
	svc := newPageService(t)
	svc.ExpectText = "STEAM"
	p := &fakeProber{result: probe.Result{
		Reachable:  true,
		StatusCode: http.StatusOK,
		Body:       []byte(`<html>steam store</html>`),
	}}
	c := newChecker(t, svc, p, nil)

	res := c.Check(context.Background())
	if !res.Ok {
		t.Errorf("expected case-insensitive match, got detail %q", res.Detail)
	}
}

func TestPageChecker_TextMissing(t *testing.T) {
	p := &fakeProber{result: probe.Result{
		Reachable:  true,
		StatusCode: http.StatusOK,
		Body:       []byte(`<html>404 page not here</html>`),
	}}
	c := newChecker(t, newPageService(t), p, nil)

	res := c.Check(context.Background())
	if res.Ok {
		t.Error("expected failure when key text is missing")
	}
	if !strings.Contains(res.Detail, "not found") {
		t.Errorf("detail should say the text was not found: %q", res.Detail)
	}
}

func TestPageChecker_TransportError(t *testing.T) {
	p := &fakeProber{result: probe.Result{
		Err: "context deadline exceeded",
	}}
	c := newChecker(t, newPageService(t), p, nil)

	res := c.Check(context.Background())
	if res.Ok {
		t.Error("expected failure on transport error")
	}
	if !strings.Contains(res.Detail, "deadline") {
		t.Errorf("detail should carry the transport error: %q", res.Detail)
	}
}

func TestPageChecker_BadStatus(t *testing.T) {
	p := &fakeProber{result: probe.Result{
		Reachable:  true,
		StatusCode: http.StatusBadGateway,
		Body:       []byte(`steam`),
	}}
	c := newChecker(t, newPageService(t), p, nil)

	res := c.Check(context.Background())
	if res.Ok {
		t.Error("expected failure on non-200 status")
	}
	if !strings.Contains(res.Detail, "502") {
		t.Errorf("detail should mention the status code: %q", res.Detail)
	}
}

// Package config loads and validates the monitoring configuration.
// The binary carries a compiled-in services document so it runs with
// no files present; a --config path replaces that document wholesale.
// The webhook URL is deliberately absent from the document: it is a
// secret and only ever enters through the environment.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/hazz-dev/gamewatch/internal/version"
)

// Check kinds. Each kind carries its own match material.
const (
	KindAPI      = "api"      // JSON endpoint, expected-key shape check
	KindPage     = "page"     // HTML page, expected-substring check
	KindRendered = "rendered" // browser-rendered page, phrase classification
)

//go:embed defaults.yml
var defaultsYAML []byte

// Duration is a time.Duration that unmarshals from a YAML string like "20s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// PhraseSet is the match material for a rendered status page. All matching is
// case-insensitive; the lists are data so copy changes upstream need a config
// edit, not a code change.
type PhraseSet struct {
	Down          []string `yaml:"down"`
	Up            []string `yaml:"up"`
	FallbackToken string   `yaml:"fallback_token"`
}

// Service describes a single monitored platform endpoint.
type Service struct {
	Name       string    `yaml:"name"`
	Kind       string    `yaml:"kind"`
	Target     string    `yaml:"target"`
	Timeout    Duration  `yaml:"timeout"`
	ExpectKeys []string  `yaml:"expect_keys"`
	ExpectText string    `yaml:"expect_text"`
	Phrases    PhraseSet `yaml:"phrases"`
}

// ProbeConfig holds HTTP prober settings shared by all checks. Timeout
// is the default for services that set none of their own; a service's
// own timeout, larger or smaller, governs its attempts.
type ProbeConfig struct {
	Timeout   Duration `yaml:"timeout"`
	UserAgent string   `yaml:"user_agent"`
}

// RetryConfig bounds per-service retry behavior.
type RetryConfig struct {
	MaxRetries int      `yaml:"max_retries"` // extra attempts after the first
	Delay      Duration `yaml:"delay"`
}

// NotifyConfig holds webhook delivery settings. The URL itself is a secret
// and only ever comes from the environment, never from the document.
type NotifyConfig struct {
	URL     string   `yaml:"-"`
	Timeout Duration `yaml:"timeout"`
}

// Config is the root application configuration.
type Config struct {
	Services []Service    `yaml:"services"`
	Probe    ProbeConfig  `yaml:"probe"`
	Retry    RetryConfig  `yaml:"retry"`
	Notify   NotifyConfig `yaml:"notify"`
	Debug    bool         `yaml:"-"`
}

// Load reads, parses, and validates the services document at path. An empty
// path loads the compiled-in defaults.
func Load(path string) (*Config, error) {
	data := defaultsYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	// Document values overlay these defaults; an absent field keeps its
	// default, so an explicit max_retries of 0 is honored as-is.
	cfg := &Config{
		Probe:  ProbeConfig{Timeout: Duration{20 * time.Second}},
		Retry:  RetryConfig{MaxRetries: 2, Delay: Duration{5 * time.Second}},
		Notify: NotifyConfig{Timeout: Duration{10 * time.Second}},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Probe.UserAgent == "" {
		cfg.Probe.UserAgent = fmt.Sprintf("gamewatch/%s (+https://github.com/hazz-dev/gamewatch)", version.Version)
	}
	for i := range cfg.Services {
		svc := &cfg.Services[i]
		// Per-service timeout defaults to the global probe timeout.
		if svc.Timeout.Duration == 0 {
			svc.Timeout = cfg.Probe.Timeout
		}
		if svc.Kind == KindRendered && svc.Phrases.FallbackToken == "" {
			svc.Phrases.FallbackToken = "Running"
		}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Services) == 0 {
		return fmt.Errorf("at least one service must be configured")
	}
	if c.Probe.Timeout.Duration <= 0 {
		return fmt.Errorf("probe: timeout must be positive")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry: max_retries must not be negative")
	}
	if c.Retry.Delay.Duration < 0 {
		return fmt.Errorf("retry: delay must not be negative")
	}
	if c.Notify.Timeout.Duration <= 0 {
		return fmt.Errorf("notify: timeout must be positive")
	}

	names := make(map[string]bool, len(c.Services))
	for i, svc := range c.Services {
		if svc.Name == "" {
			return fmt.Errorf("service[%d]: name is required", i)
		}
		if names[svc.Name] {
			return fmt.Errorf("duplicate service name %q", svc.Name)
		}
		names[svc.Name] = true

		if svc.Target == "" {
			return fmt.Errorf("service %q: target is required", svc.Name)
		}
		if svc.Timeout.Duration < 0 {
			return fmt.Errorf("service %q: timeout must not be negative", svc.Name)
		}

		switch svc.Kind {
		case KindAPI:
			if len(svc.ExpectKeys) == 0 {
				return fmt.Errorf("service %q: api checks need at least one entry in expect_keys", svc.Name)
			}
		case KindPage:
			if svc.ExpectText == "" {
				return fmt.Errorf("service %q: page checks need expect_text", svc.Name)
			}
		case KindRendered:
			if len(svc.Phrases.Down) == 0 || len(svc.Phrases.Up) == 0 {
				return fmt.Errorf("service %q: rendered checks need phrases.down and phrases.up", svc.Name)
			}
			// A blank phrase would substring-match every page.
			for _, p := range svc.Phrases.Down {
				if strings.TrimSpace(p) == "" {
					return fmt.Errorf("service %q: phrases.down must not contain blank entries", svc.Name)
				}
			}
			for _, p := range svc.Phrases.Up {
				if strings.TrimSpace(p) == "" {
					return fmt.Errorf("service %q: phrases.up must not contain blank entries", svc.Name)
				}
			}
		default:
			return fmt.Errorf("service %q: invalid kind %q (must be api, page, or rendered)", svc.Name, svc.Kind)
		}
	}
	return nil
}

// envSettings is the process environment surface. The webhook URL is the one
// secret this program handles and is only ever supplied this way.
type envSettings struct {
	WebhookURL string `envconfig:"discord_webhook_url"`
	Debug      bool   `envconfig:"gamewatch_debug" default:"false"`
}

// ApplyEnv overlays environment settings onto the loaded configuration. An
// unset DISCORD_WEBHOOK_URL leaves notifications in local-log-only mode.
func (c *Config) ApplyEnv() error {
	var e envSettings
	if err := envconfig.Process("", &e); err != nil {
		return err
	}
	c.Notify.URL = e.WebhookURL
	if e.Debug {
		c.Debug = true
	}
	return nil
}

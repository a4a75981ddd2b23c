package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/consent/internal/expr"
	"github.com/viant/consent/internal/logging"
	"github.com/viant/consent/policy"
	"github.com/viant/consent/service/session"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the gate configuration. It is
// usually loaded from YAML with LoadConfig; fields left out keep their
// defaults.
type Config struct {
	Approval ApprovalConfig        `json:"approval" yaml:"approval"`
	Policy   policy.Config         `json:"policy" yaml:"policy"`
	Log      logging.Config        `json:"log" yaml:"log"`
	Session  session.JournalConfig `json:"session" yaml:"session"`
	Tracing  TracingConfig         `json:"tracing" yaml:"tracing"`
	Metrics  MetricsConfig         `json:"metrics" yaml:"metrics"`
}

type ApprovalConfig struct {
	// RequestTimeout cancels a shown action nobody answered; 0 disables it.
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
	// Expiry is the age after which the sweep reclaims an action.
	Expiry time.Duration `json:"expiry" yaml:"expiry"`
	// SweepInterval schedules the sweep; 0 disables it.
	SweepInterval time.Duration `json:"sweepInterval" yaml:"sweepInterval"`
	// EventBuffer sizes the event queue; 0 disables events.
	EventBuffer int `json:"eventBuffer" yaml:"eventBuffer"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile" yaml:"outputFile"` // empty writes to stdout
}

type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// DefaultConfig returns a Config populated with the default values used by
// New.
func DefaultConfig() *Config {
	return &Config{
		Approval: ApprovalConfig{
			RequestTimeout: 30 * time.Second,
			Expiry:         5 * time.Minute,
			SweepInterval:  5 * time.Minute,
			EventBuffer:    100,
		},
		Policy: policy.Config{Mode: policy.ModeAsk},
		Log: logging.Config{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Session: session.JournalConfig{MaxSizeMB: 10, MaxBackups: 3},
		Tracing: TracingConfig{ServiceName: "consent", ServiceVersion: "0.1.0"},
		Metrics: MetricsConfig{Namespace: "consent"},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Approval.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("approval.requestTimeout must be >= 0"))
	}
	if c.Approval.Expiry <= 0 {
		errs = append(errs, fmt.Errorf("approval.expiry must be > 0"))
	}
	if c.Approval.SweepInterval < 0 {
		errs = append(errs, fmt.Errorf("approval.sweepInterval must be >= 0"))
	}
	if c.Approval.EventBuffer < 0 {
		errs = append(errs, fmt.Errorf("approval.eventBuffer must be >= 0"))
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing.serviceName is required when tracing is enabled"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML document from URL (any afs supported scheme),
// expands ${env.KEY} expressions and decodes it over DefaultConfig.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	cfg := DefaultConfig()
	if err = yaml.Unmarshal([]byte(expr.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

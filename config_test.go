package consent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/consent"
	"github.com/viant/consent/policy"
)

func TestLoadConfig(t *testing.T) {
	type testCase struct {
		name      string
		document  string
		env       map[string]string
		expect    func(t *testing.T, cfg *consent.Config)
		expectErr string
	}
	tests := []testCase{
		{
			name:     "empty document keeps defaults",
			document: "",
			expect: func(t *testing.T, cfg *consent.Config) {
				assert.Equal(t, consent.DefaultConfig(), cfg)
			},
		},
		{
			name: "overrides with env expansion",
			document: `approval:
  requestTimeout: ${env.CONSENT_TEST_TIMEOUT:-30s}
  expiry: 10m
policy:
  mode: auto
  block: [download]
log:
  level: ${env.CONSENT_TEST_LEVEL}
metrics:
  enabled: true
  namespace: gate
`,
			env: map[string]string{"CONSENT_TEST_TIMEOUT": "45s", "CONSENT_TEST_LEVEL": "debug"},
			expect: func(t *testing.T, cfg *consent.Config) {
				assert.Equal(t, 45*time.Second, cfg.Approval.RequestTimeout)
				assert.Equal(t, 10*time.Minute, cfg.Approval.Expiry)
				assert.Equal(t, 5*time.Minute, cfg.Approval.SweepInterval)
				assert.Equal(t, policy.Config{Mode: policy.ModeAuto, BlockList: []string{"download"}}, cfg.Policy)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "text", cfg.Log.Format)
				assert.True(t, cfg.Metrics.Enabled)
				assert.Equal(t, "gate", cfg.Metrics.Namespace)
			},
		},
		{
			name: "fallback when env unset",
			document: `approval:
  requestTimeout: ${env.CONSENT_TEST_UNSET:-0s}
`,
			expect: func(t *testing.T, cfg *consent.Config) {
				assert.Equal(t, time.Duration(0), cfg.Approval.RequestTimeout)
			},
		},
		{
			name: "invalid policy mode",
			document: `policy:
  mode: sometimes
`,
			expectErr: "unsupported mode",
		},
		{
			name: "invalid expiry",
			document: `approval:
  expiry: 0s
`,
			expectErr: "approval.expiry must be > 0",
		},
		{
			name:      "malformed yaml",
			document:  "approval: [",
			expectErr: "failed to decode config",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			location := filepath.Join(t.TempDir(), "consent.yaml")
			require.NoError(t, os.WriteFile(location, []byte(tc.document), 0o644))

			cfg, err := consent.LoadConfig(context.Background(), location)
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			tc.expect(t, cfg)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := consent.LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := consent.DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Approval.RequestTimeout = -time.Second
	cfg.Approval.EventBuffer = -1
	cfg.Log.Format = "xml"
	cfg.Tracing = consent.TracingConfig{Enabled: true}
	err := cfg.Validate()
	require.Error(t, err)
	for _, fragment := range []string{"requestTimeout", "eventBuffer", "log.format", "tracing.serviceName"} {
		assert.Contains(t, err.Error(), fragment)
	}

	var nilConfig *consent.Config
	assert.NoError(t, nilConfig.Validate())
}

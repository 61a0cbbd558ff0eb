package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rca-decider/internal/common"
)

func loadYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return decode(v)
}

func TestDefaults(t *testing.T) {
	cfg, err := loadYAML(t, "app:\n  log_level: debug\n")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 9600, cfg.Scrape.Port)
	assert.Equal(t, 0.75, cfg.Analysis.HeapRatio)
	assert.Equal(t, []string{"fielddata", "shard_request"}, cfg.Analysis.CacheTypes)
	assert.Equal(t, 4, cfg.Decider.WindowCount)
	assert.Equal(t, 24*time.Hour, cfg.Decider.WindowUnit)
	assert.Equal(t, 720, cfg.Decider.EvalFrequency)

	_, _, ok := cfg.Decider.Thresholds(PolicyJVMScaleUp)
	assert.False(t, ok, "thresholds start unconfigured")
}

func TestPolicyThresholds(t *testing.T) {
	cfg, err := loadYAML(t, `
decider:
  interval: 30s
  eval_frequency: 3
  window_unit: 1h
  policies:
    jvm_scale_up:
      unhealthy_node_percentage: 50
      min_unhealthy_minutes: 2
    cache_scale_up_fielddata:
      unhealthy_node_percentage: 30
`)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Decider.Interval)
	assert.Equal(t, time.Hour, cfg.Decider.WindowUnit)

	pct, minutes, ok := cfg.Decider.Thresholds(PolicyJVMScaleUp)
	require.True(t, ok)
	assert.Equal(t, 50, pct)
	assert.Equal(t, 2, minutes)

	_, _, ok = cfg.Decider.Thresholds(CachePolicyName("fielddata"))
	assert.False(t, ok, "a policy with one threshold missing stays unconfigured")

	assert.Equal(t, []string{
		"cache_scale_up_fielddata",
		"cache_scale_up_shard_request",
		"jvm_scale_up",
	}, cfg.PolicyNames())
}

func TestMixedCaseCacheTypeThresholds(t *testing.T) {
	cfg, err := loadYAML(t, `
analysis:
  cache_types: [fieldData]
decider:
  policies:
    cache_scale_up_fieldData:
      unhealthy_node_percentage: 50
      min_unhealthy_minutes: 2
`)
	require.NoError(t, err)

	assert.Equal(t, "cache_scale_up_fielddata", CachePolicyName("fieldData"))
	assert.Equal(t, []string{"cache_scale_up_fielddata", "jvm_scale_up"}, cfg.PolicyNames())

	pct, minutes, ok := cfg.Decider.Thresholds(CachePolicyName("fieldData"))
	require.True(t, ok)
	assert.Equal(t, 50, pct)
	assert.Equal(t, 2, minutes)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decider:\n  eval_frequency: 3\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, v, err := LoadWithViper()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Decider.EvalFrequency)
	assert.Equal(t, path, v.ConfigFileUsed())

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchConfigAppliesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decider:\n  eval_frequency: 3\n"), 0o600))

	_, v, err := LoadFile(path)
	require.NoError(t, err)

	applied := make(chan *Config, 4)
	require.True(t, WatchConfig(v, common.NopLogger(), func(cfg *Config) { applied <- cfg }))

	require.NoError(t, os.WriteFile(path, []byte("decider:\n  eval_frequency: 0\n"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(`
decider:
  eval_frequency: 3
  policies:
    jvm_scale_up:
      unhealthy_node_percentage: 40
      min_unhealthy_minutes: 5
`), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-applied:
			pct, minutes, ok := cfg.Decider.Thresholds(PolicyJVMScaleUp)
			if !ok {
				continue
			}
			assert.Equal(t, 40, pct)
			assert.Equal(t, 5, minutes)
			return
		case <-deadline:
			t.Fatal("configuration change was not applied")
		}
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "percentage out of range",
			yaml:    "decider:\n  policies:\n    jvm_scale_up:\n      unhealthy_node_percentage: 120\n",
			wantErr: "unhealthy_node_percentage",
		},
		{
			name:    "negative minimum",
			yaml:    "decider:\n  policies:\n    jvm_scale_up:\n      min_unhealthy_minutes: -1\n",
			wantErr: "min_unhealthy_minutes",
		},
		{
			name:    "zero eval frequency",
			yaml:    "decider:\n  eval_frequency: 0\n",
			wantErr: "decider.eval_frequency",
		},
		{
			name:    "heap ratio above one",
			yaml:    "analysis:\n  heap_ratio: 1.5\n",
			wantErr: "analysis.heap_ratio",
		},
		{
			name:    "notifier without url or secret",
			yaml:    "notifier:\n  enabled: true\n  secret_name: \"\"\n",
			wantErr: "notifier.webhook_url",
		},
		{
			name:    "policy thresholds for an unknown policy",
			yaml:    "decider:\n  policies:\n    cache_scale_up_query:\n      unhealthy_node_percentage: 50\n",
			wantErr: "decider.policies.cache_scale_up_query",
		},
		{
			name:    "cache types differing only in case",
			yaml:    "analysis:\n  cache_types: [fielddata, FieldData]\n",
			wantErr: "cache_scale_up_fielddata twice",
		},
		{
			name:    "unknown server mode",
			yaml:    "server:\n  mode: production\n",
			wantErr: "server.mode",
		},
		{
			name:    "empty port",
			yaml:    "server:\n  port: \"\"\n",
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadYAML(t, tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchConfigWithoutFile(t *testing.T) {
	v := viper.New()
	assert.False(t, WatchConfig(v, nil, func(*Config) {}))
}

func TestDetermineKubeconfigPath(t *testing.T) {
	assert.Equal(t, "/tmp/kubeconfig", determineKubeconfigPath("/tmp/kubeconfig"))

	t.Setenv("KUBECONFIG", "/env/kubeconfig")
	assert.Equal(t, "/env/kubeconfig", determineKubeconfigPath(""))

	assert.True(t, shouldUseInClusterConfig(""))
	assert.True(t, shouldUseInClusterConfig(filepath.Join(t.TempDir(), "missing")))
}

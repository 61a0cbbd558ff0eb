package app

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Policy names
const (
	PolicyJVMScaleUp         = "jvm_scale_up"
	policyCacheScaleUpPrefix = "cache_scale_up_"
)

// CachePolicyName returns the policy name for a cache type, e.g. "cache_scale_up_fielddata".
// Names are lower case because viper lowercases the decider.policies map keys.
func CachePolicyName(cacheType string) string {
	return policyCacheScaleUpPrefix + strings.ToLower(cacheType)
}

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Kubernetes configuration
	Kubernetes KubernetesConfig `mapstructure:"kubernetes"`

	// Topology configuration
	Topology TopologyConfig `mapstructure:"topology"`

	// Scrape configuration
	Scrape ScrapeConfig `mapstructure:"scrape"`

	// Analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Decider configuration
	Decider DeciderConfig `mapstructure:"decider"`

	// Notifier configuration
	Notifier NotifierConfig `mapstructure:"notifier"`

	// Events configuration
	Events EventsConfig `mapstructure:"events"`

	// Application configuration
	App AppConfig `mapstructure:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `mapstructure:"port"`

	// ShutdownTimeout is the timeout for server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Mode is the gin mode: debug, release or test
	Mode string `mapstructure:"mode"`
}

// KubernetesConfig holds Kubernetes client configuration
type KubernetesConfig struct {
	// Namespace is the namespace the decider runs in
	Namespace string `mapstructure:"namespace"`

	// ConfigPath is the path to the kubeconfig file
	ConfigPath string `mapstructure:"config_path"`

	// MasterURL is the Kubernetes API server URL
	MasterURL string `mapstructure:"master_url"`

	// QPS and Burst limit requests to the API server
	QPS   float32 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

// TopologyConfig holds cluster membership configuration
type TopologyConfig struct {
	// NodeSelector is the label selector for cluster member nodes
	NodeSelector string `mapstructure:"node_selector"`

	// ReadyOnly drops nodes whose Ready condition is not True
	ReadyOnly bool `mapstructure:"ready_only"`
}

// ScrapeConfig holds exporter scrape configuration
type ScrapeConfig struct {
	// ExporterNamespace is the namespace of the metrics exporter pods
	ExporterNamespace string `mapstructure:"exporter_namespace"`

	// ExporterLabel is the label selector for exporter pods
	ExporterLabel string `mapstructure:"exporter_label"`

	// Port and Path locate the metrics endpoint on each exporter pod
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`

	// Timeout bounds a single scrape
	Timeout time.Duration `mapstructure:"timeout"`

	// Series names read from the exposition
	HeapUsedMetric  string `mapstructure:"heap_used_metric"`
	HeapMaxMetric   string `mapstructure:"heap_max_metric"`
	CacheSizeMetric string `mapstructure:"cache_size_metric"`
	CacheMaxMetric  string `mapstructure:"cache_max_metric"`
	CacheTypeLabel  string `mapstructure:"cache_type_label"`
}

// AnalysisConfig holds summary computation configuration
type AnalysisConfig struct {
	// Interval is the period between collections
	Interval time.Duration `mapstructure:"interval"`

	// HeapRatio is the fraction of max heap above which a node is unhealthy
	HeapRatio float64 `mapstructure:"heap_ratio"`

	// CacheRatio is the fraction of cache capacity above which a node is unhealthy
	CacheRatio float64 `mapstructure:"cache_ratio"`

	// CacheTypes lists the caches to summarize
	CacheTypes []string `mapstructure:"cache_types"`
}

// DeciderConfig holds decision policy configuration
type DeciderConfig struct {
	// Interval is the period between policy invocations
	Interval time.Duration `mapstructure:"interval"`

	// EvalFrequency is the number of invocations between cluster-wide checks
	EvalFrequency int `mapstructure:"eval_frequency"`

	// WindowCount and WindowUnit bound each node's signal window
	WindowCount int           `mapstructure:"window_count"`
	WindowUnit  time.Duration `mapstructure:"window_unit"`

	// CooldownPeriod vetoes repeating the same action
	CooldownPeriod time.Duration `mapstructure:"cooldown_period"`

	// Policies holds per-policy thresholds keyed by policy name
	Policies map[string]PolicyConfig `mapstructure:"policies"`
}

// PolicyConfig holds the thresholds of one policy. Unset values leave the policy unconfigured.
type PolicyConfig struct {
	UnhealthyNodePercentage *int `mapstructure:"unhealthy_node_percentage"`
	MinUnhealthyMinutes     *int `mapstructure:"min_unhealthy_minutes"`
}

// NotifierConfig holds webhook notification configuration
type NotifierConfig struct {
	// Enabled turns webhook notifications on
	Enabled bool `mapstructure:"enabled"`

	// WebhookURL is used directly when set
	WebhookURL string `mapstructure:"webhook_url"`

	// SecretName and URLKey locate the webhook URL in a Kubernetes secret
	SecretName string `mapstructure:"secret_name"`
	URLKey     string `mapstructure:"url_key"`

	// UserAgent is sent with every request
	UserAgent string `mapstructure:"user_agent"`

	// Timeout bounds a single request
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxElapsedTime bounds retries
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// EventsConfig holds Kubernetes event recording configuration
type EventsConfig struct {
	// Enabled turns event recording on
	Enabled bool `mapstructure:"enabled"`

	// Involved object the events are attached to
	APIVersion string `mapstructure:"api_version"`
	Kind       string `mapstructure:"kind"`
	Resource   string `mapstructure:"resource"`
	Name       string `mapstructure:"name"`
}

// AppConfig holds application configuration
type AppConfig struct {
	// Component is the name of the component
	Component string `mapstructure:"component"`

	// LogLevel is the log level
	LogLevel string `mapstructure:"log_level"`
}

// Thresholds returns the configured thresholds for a policy. ok is false when either value is unset.
func (c *DeciderConfig) Thresholds(policy string) (unhealthyNodePercentage, minUnhealthyMinutes int, ok bool) {
	pc, exists := c.Policies[policy]
	if !exists || pc.UnhealthyNodePercentage == nil || pc.MinUnhealthyMinutes == nil {
		return 0, 0, false
	}
	return *pc.UnhealthyNodePercentage, *pc.MinUnhealthyMinutes, true
}

// PolicyNames lists the policies the configuration defines, ordered by name
func (c *Config) PolicyNames() []string {
	names := []string{PolicyJVMScaleUp}
	for _, cacheType := range c.Analysis.CacheTypes {
		names = append(names, CachePolicyName(cacheType))
	}
	sort.Strings(names)
	return names
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	cfg, _, err := LoadWithViper()
	return cfg, err
}

// ConfigFileEnv names an explicit configuration file, bypassing the search paths
const ConfigFileEnv = "RCA_DECIDER_CONFIG_FILE"

// LoadWithViper loads configuration and returns the viper instance so callers can watch it
func LoadWithViper() (*Config, *viper.Viper, error) {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return LoadFile(path)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths and file types
	configureViper(v)

	// Read configs file
	if err := readConfigs(v); err != nil {
		return nil, nil, err
	}

	// Load environment variables from app.env
	if err := loadEnvVars(v); err != nil {
		return nil, nil, err
	}

	config, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return config, v, nil
}

// LoadFile loads configuration from a single file on top of defaults and environment
func LoadFile(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	configureViper(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read configs file %s: %w", path, err)
	}

	config, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return config, v, nil
}

// decode unmarshals and validates the current viper state
func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configs: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// configureViper sets up Viper configuration paths and types
func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("./properties")
	v.AddConfigPath("/etc/rca-decider/")

	// Enable environment variables
	v.SetEnvPrefix("RCA_DECIDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// readConfigs attempts to read the configuration file
func readConfigs(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Only return error if it's not a "configs file not found" error
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read configs file: %w", err)
		}
		// Otherwise, continue with defaults and environment variables
	}
	return nil
}

// loadEnvVars loads environment variables from app.env file
func loadEnvVars(v *viper.Viper) error {
	envViper := viper.New()
	envViper.SetConfigName("app")
	envViper.SetConfigType("env")
	envViper.AddConfigPath("./configs")
	envViper.AddConfigPath("./properties")

	if err := envViper.ReadInConfig(); err == nil {
		// Merge environment file into main configs if found
		for _, key := range envViper.AllKeys() {
			v.Set(key, envViper.Get(key))
		}
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", cfg.Server.Mode)
	}

	if cfg.Kubernetes.Namespace == "" {
		return fmt.Errorf("kubernetes.namespace is required")
	}

	if cfg.Scrape.Port <= 0 || cfg.Scrape.Port > 65535 {
		return fmt.Errorf("scrape.port must be a valid port, got %d", cfg.Scrape.Port)
	}
	if cfg.Scrape.Timeout <= 0 {
		return fmt.Errorf("scrape.timeout must be positive")
	}

	if cfg.Analysis.Interval <= 0 {
		return fmt.Errorf("analysis.interval must be positive")
	}
	if cfg.Analysis.HeapRatio <= 0 || cfg.Analysis.HeapRatio > 1 {
		return fmt.Errorf("analysis.heap_ratio must be within (0, 1]")
	}
	if cfg.Analysis.CacheRatio <= 0 || cfg.Analysis.CacheRatio > 1 {
		return fmt.Errorf("analysis.cache_ratio must be within (0, 1]")
	}

	if cfg.Decider.Interval <= 0 {
		return fmt.Errorf("decider.interval must be positive")
	}
	if cfg.Decider.EvalFrequency < 1 {
		return fmt.Errorf("decider.eval_frequency must be at least 1")
	}
	if cfg.Decider.WindowCount < 1 || cfg.Decider.WindowUnit <= 0 {
		return fmt.Errorf("decider.window_count and decider.window_unit must be positive")
	}
	if cfg.Decider.CooldownPeriod < 0 {
		return fmt.Errorf("decider.cooldown_period must not be negative")
	}
	known := make(map[string]bool)
	for _, name := range cfg.PolicyNames() {
		if known[name] {
			return fmt.Errorf("analysis.cache_types defines policy %s twice", name)
		}
		known[name] = true
	}
	for name, pc := range cfg.Decider.Policies {
		if !known[name] {
			return fmt.Errorf("decider.policies.%s does not match any policy", name)
		}
		if pc.UnhealthyNodePercentage != nil && (*pc.UnhealthyNodePercentage < 0 || *pc.UnhealthyNodePercentage > 100) {
			return fmt.Errorf("decider.policies.%s.unhealthy_node_percentage must be within 0-100", name)
		}
		if pc.MinUnhealthyMinutes != nil && *pc.MinUnhealthyMinutes < 0 {
			return fmt.Errorf("decider.policies.%s.min_unhealthy_minutes must not be negative", name)
		}
	}

	if cfg.Notifier.Enabled && cfg.Notifier.WebhookURL == "" &&
		(cfg.Notifier.SecretName == "" || cfg.Notifier.URLKey == "") {
		return fmt.Errorf("notifier.webhook_url or notifier.secret_name and notifier.url_key are required when notifier is enabled")
	}

	if cfg.Events.Enabled && (cfg.Events.Kind == "" || cfg.Events.Name == "") {
		return fmt.Errorf("events.kind and events.name are required when events are enabled")
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.mode", "release")

	// Kubernetes defaults
	v.SetDefault("kubernetes.namespace", "default")
	v.SetDefault("kubernetes.qps", 20)
	v.SetDefault("kubernetes.burst", 40)

	// Topology defaults
	v.SetDefault("topology.node_selector", "")
	v.SetDefault("topology.ready_only", false)

	// Scrape defaults
	v.SetDefault("scrape.exporter_namespace", "monitoring")
	v.SetDefault("scrape.exporter_label", "app=opensearch-exporter")
	v.SetDefault("scrape.port", 9600)
	v.SetDefault("scrape.path", "/metrics")
	v.SetDefault("scrape.timeout", 5*time.Second)
	v.SetDefault("scrape.heap_used_metric", "jvm_memory_bytes_used")
	v.SetDefault("scrape.heap_max_metric", "jvm_memory_bytes_max")
	v.SetDefault("scrape.cache_size_metric", "opensearch_cache_size_bytes")
	v.SetDefault("scrape.cache_max_metric", "opensearch_cache_max_size_bytes")
	v.SetDefault("scrape.cache_type_label", "cache")

	// Analysis defaults
	v.SetDefault("analysis.interval", 1*time.Minute)
	v.SetDefault("analysis.heap_ratio", 0.75)
	v.SetDefault("analysis.cache_ratio", 0.9)
	v.SetDefault("analysis.cache_types", []string{"fielddata", "shard_request"})

	// Decider defaults: one-minute ticks, evaluated every 12 hours over 4 days
	v.SetDefault("decider.interval", 1*time.Minute)
	v.SetDefault("decider.eval_frequency", 12*60)
	v.SetDefault("decider.window_count", 4)
	v.SetDefault("decider.window_unit", 24*time.Hour)
	v.SetDefault("decider.cooldown_period", 24*time.Hour)

	// Notifier defaults
	v.SetDefault("notifier.enabled", false)
	v.SetDefault("notifier.secret_name", "rca-decider-webhook")
	v.SetDefault("notifier.url_key", "webhookUrl")
	v.SetDefault("notifier.user_agent", "rca-decider")
	v.SetDefault("notifier.timeout", 10*time.Second)
	v.SetDefault("notifier.max_elapsed_time", 1*time.Minute)

	// Events defaults
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.api_version", "apps/v1")
	v.SetDefault("events.kind", "Deployment")
	v.SetDefault("events.resource", "deployments")
	v.SetDefault("events.name", "rca-decider")

	// App defaults
	v.SetDefault("app.component", "rca-decider")
	v.SetDefault("app.log_level", "info")
}

// Package config loads engine configuration from struct defaults, an
// optional YAML file and NETGLOBE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/signalsfoundry/netglobe/internal/logging"
	"github.com/signalsfoundry/netglobe/internal/observability"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "NETGLOBE_CONFIG"

// DefaultPaths are searched in order when no explicit path is given.
var DefaultPaths = []string{
	"netglobe.yaml",
	"netglobe.yml",
	"configs/netglobe.yaml",
}

// Config is the complete engine configuration.
type Config struct {
	Scene     SceneConfig     `koanf:"scene"`
	Animation AnimationConfig `koanf:"animation"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

// SceneConfig controls graph construction.
type SceneConfig struct {
	Path         string  `koanf:"path"` // empty = built-in scene
	Radius       float64 `koanf:"radius" validate:"gt=0"`
	CurveSamples int     `koanf:"curve_samples" validate:"gte=2"`
	LenientEdges bool    `koanf:"lenient_edges"`
}

// AnimationConfig controls the frame driver.
type AnimationConfig struct {
	FrameInterval time.Duration `koanf:"frame_interval" validate:"gt=0"`
	StepInterval  time.Duration `koanf:"step_interval" validate:"gt=0"`
	Duration      time.Duration `koanf:"duration" validate:"gte=0"`
	Mode          string        `koanf:"mode" validate:"oneof=realtime accelerated"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level     string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format    string `koanf:"format" validate:"oneof=text json"`
	AddSource bool   `koanf:"add_source"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr" validate:"required_if=Enabled true"`
}

// TracingConfig mirrors observability.TracingConfig.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Exporter    string  `koanf:"exporter" validate:"oneof=stdout otlp otlpgrpc"`
	Endpoint    string  `koanf:"endpoint"`
	SampleRatio float64 `koanf:"sample_ratio" validate:"gte=0,lte=1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Radius:       2.0,
			CurveSamples: 21,
		},
		Animation: AnimationConfig{
			FrameInterval: time.Second / 60,
			StepInterval:  50 * time.Millisecond,
			Duration:      10 * time.Second,
			Mode:          "accelerated",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "netglobe",
			Exporter:    "stdout",
			SampleRatio: 1.0,
		},
	}
}

// Load layers defaults, the YAML file at path (or the first of
// DefaultPaths that exists when path is empty) and the environment, then
// validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("NETGLOBE_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings maps NETGLOBE_* variables, prefix stripped and lowercased,
// to config keys. Unmapped variables are ignored.
var envMappings = map[string]string{
	"scene_path":           "scene.path",
	"scene_radius":         "scene.radius",
	"scene_curve_samples":  "scene.curve_samples",
	"scene_lenient_edges":  "scene.lenient_edges",
	"animation_frame":      "animation.frame_interval",
	"animation_step":       "animation.step_interval",
	"animation_duration":   "animation.duration",
	"animation_mode":       "animation.mode",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
	"log_add_source":       "logging.add_source",
	"metrics_enabled":      "metrics.enabled",
	"metrics_addr":         "metrics.addr",
	"tracing_enabled":      "tracing.enabled",
	"tracing_service_name": "tracing.service_name",
	"tracing_exporter":     "tracing.exporter",
	"tracing_endpoint":     "tracing.endpoint",
	"tracing_sample_ratio": "tracing.sample_ratio",
}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "NETGLOBE_"))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field bounds and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LoggerConfig converts the logging section.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.AddSource,
	}
}

// TracingSetup converts the tracing section.
func (c *Config) TracingSetup() observability.TracingConfig {
	return observability.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: c.Tracing.ServiceName,
		Exporter:    c.Tracing.Exporter,
		Endpoint:    c.Tracing.Endpoint,
		SampleRatio: c.Tracing.SampleRatio,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig   `koanf:"server"  validate:"required"`
	Log     LogConfig      `koanf:"log"`
	Fetch   FetchConfig    `koanf:"fetch"`
	TopN    TopNConfig     `koanf:"top_n"`
	Metrics MetricsConfig  `koanf:"metrics"`
	Sources []SourceConfig `koanf:"sources" validate:"dive"`
}

type ServerConfig struct {
	Addr    string `koanf:"addr"     validate:"required"`
	DataDir string `koanf:"data_dir"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

type FetchConfig struct {
	Timeout       time.Duration `koanf:"timeout"         validate:"gte=0"`
	Retries       int           `koanf:"retries"         validate:"gte=0,lte=10"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gte=0"`
	Burst         int           `koanf:"burst"           validate:"gte=0"`
}

type TopNConfig struct {
	Default int `koanf:"default" validate:"gte=1"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"    validate:"required,startswith=/,excludes=?"`
}

// SourceConfig is one survey file and the continent its answers belong to.
type SourceConfig struct {
	Location  string `koanf:"location"  validate:"required"`
	Continent string `koanf:"continent" validate:"required"`
}

const envPrefix = "SURVEY_"

// envToPath maps environment variables to config keys.
var envToPath = map[string]string{
	"SURVEY_ADDR":          "server.addr",
	"SURVEY_DATA_DIR":      "server.data_dir",
	"SURVEY_LOG_LEVEL":     "log.level",
	"SURVEY_LOG_JSON":      "log.json",
	"SURVEY_FETCH_TIMEOUT": "fetch.timeout",
	"SURVEY_FETCH_RETRIES": "fetch.retries",
	"SURVEY_FETCH_RATE":    "fetch.rate_per_second",
	"SURVEY_FETCH_BURST":   "fetch.burst",
	"SURVEY_TOP_N":         "top_n.default",
	"SURVEY_METRICS":       "metrics.enabled",
	"SURVEY_METRICS_PATH":  "metrics.path",
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", DataDir: "data"},
		Log:    LogConfig{Level: "info"},
		Fetch: FetchConfig{
			Timeout: 30 * time.Second,
			Retries: 2,
			Burst:   1,
		},
		TopN:    TopNConfig{Default: 5},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		Sources: []SourceConfig{
			{Location: "data/survey_results_WE.json", Continent: "europe"},
			{Location: "data/survey_results_NA.json", Continent: "north america"},
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty or missing), then SURVEY_* variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := readYAML(path)
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := k.Load(rawMap(data), nil); err != nil {
				return nil, fmt.Errorf("failed to apply %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envToPath[key], value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

func readYAML(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil, nil
	}
	var data map[string]any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return data, nil
}

// rawMap is a koanf.Provider adapter for an already parsed map.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not implemented")
}

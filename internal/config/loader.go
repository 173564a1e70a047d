package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Defaults in WithDefaults.
type Config struct {
	Addr              string   `json:"addr" yaml:"addr" toml:"addr"`
	LoraDir           string   `json:"lora_dir" yaml:"lora_dir" toml:"lora_dir"`
	HypernetworkDir   string   `json:"hypernetwork_dir" yaml:"hypernetwork_dir" toml:"hypernetwork_dir"`
	SamplesFormat     string   `json:"samples_format" yaml:"samples_format" toml:"samples_format"`
	MultiplierExpr    string   `json:"multiplier_expr" yaml:"multiplier_expr" toml:"multiplier_expr"`
	PreviewExtensions []string `json:"preview_extensions" yaml:"preview_extensions" toml:"preview_extensions"`
	Watch             bool     `json:"watch" yaml:"watch" toml:"watch"`
	WatchDebounceMS   int      `json:"watch_debounce_ms" yaml:"watch_debounce_ms" toml:"watch_debounce_ms"`
	MetadataCacheTTLS int      `json:"metadata_cache_ttl_s" yaml:"metadata_cache_ttl_s" toml:"metadata_cache_ttl_s"`
	RefreshTimeoutS   int      `json:"refresh_timeout_s" yaml:"refresh_timeout_s" toml:"refresh_timeout_s"`
	LogLevel          string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSEnabled       bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Defaults returns the configuration used when nothing else is given.
func Defaults() Config {
	return Config{
		Addr:              ":7861",
		LoraDir:           "~/models/Lora",
		HypernetworkDir:   "~/models/hypernetworks",
		SamplesFormat:     "png",
		MultiplierExpr:    "opts.extra_networks_default_multiplier",
		PreviewExtensions: []string{"png", "jpg", "jpeg", "webp", "gif"},
		WatchDebounceMS:   500,
		MetadataCacheTTLS: 600,
		RefreshTimeoutS:   60,
		LogLevel:          "info",
	}
}

// WithDefaults fills every zero-valued field of c from Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Addr == "" { c.Addr = d.Addr }
	if c.LoraDir == "" { c.LoraDir = d.LoraDir }
	if c.HypernetworkDir == "" { c.HypernetworkDir = d.HypernetworkDir }
	if c.SamplesFormat == "" { c.SamplesFormat = d.SamplesFormat }
	if c.MultiplierExpr == "" { c.MultiplierExpr = d.MultiplierExpr }
	if len(c.PreviewExtensions) == 0 { c.PreviewExtensions = d.PreviewExtensions }
	if c.WatchDebounceMS <= 0 { c.WatchDebounceMS = d.WatchDebounceMS }
	if c.MetadataCacheTTLS <= 0 { c.MetadataCacheTTLS = d.MetadataCacheTTLS }
	// negative disables the refresh timeout
	if c.RefreshTimeoutS == 0 { c.RefreshTimeoutS = d.RefreshTimeoutS }
	if c.LogLevel == "" { c.LogLevel = d.LogLevel }
	c.SamplesFormat = strings.TrimPrefix(c.SamplesFormat, ".")
	exts := make([]string, 0, len(c.PreviewExtensions))
	for _, ext := range c.PreviewExtensions {
		exts = append(exts, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	c.PreviewExtensions = exts
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	if err := DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeFile unmarshals the file at path into v, picking the decoder from the
// file extension. It is shared with the sidecar metadata reader.
func DecodeFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, v); err != nil { return fmt.Errorf("decode %s: %w", path, err) }
	case ".json":
		if err := json.Unmarshal(b, v); err != nil { return fmt.Errorf("decode %s: %w", path, err) }
	case ".toml":
		if err := toml.Unmarshal(b, v); err != nil { return fmt.Errorf("decode %s: %w", path, err) }
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	return nil
}

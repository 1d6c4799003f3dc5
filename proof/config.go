package proof

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/aegraph/internal"
	"github.com/gnoswap-labs/aegraph/internal/graph"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

// DefaultConfigFile is read when no configuration path is given.
const DefaultConfigFile = ".aegraph.yaml"

// Config represents the overall configuration with a name, the rule
// severities and the result cache settings.
type Config struct {
	Name  string                   `yaml:"name"`
	Rules map[string]tt.ConfigRule `yaml:"rules"`
	Cache CacheConfig              `yaml:"cache,omitempty"`
}

// CacheConfig enables the result cache when Dir is set.
type CacheConfig struct {
	Dir    string `yaml:"dir,omitempty"`
	MaxAge string `yaml:"max_age,omitempty"`
}

// DefaultConfig enables every rule at error level, without a cache.
func DefaultConfig() Config {
	rules := make(map[string]tt.ConfigRule, len(graph.Rules))
	for _, r := range graph.Rules {
		rules[r.String()] = tt.ConfigRule{Severity: tt.SeverityError}
	}
	return Config{Name: "aegraph", Rules: rules}
}

// LoadConfig reads the configuration at path. An empty path falls back to
// DefaultConfigFile when it exists and to DefaultConfig otherwise.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return DefaultConfig(), nil
		}
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error decoding %s: %w", path, err)
	}
	if _, err := config.maxAge(); err != nil {
		return Config{}, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig stores c at path in YAML.
func WriteConfig(path string, c Config) error {
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

func (c Config) maxAge() (time.Duration, error) {
	if c.Cache.MaxAge == "" {
		return internal.DefaultCacheAge, nil
	}
	d, err := time.ParseDuration(c.Cache.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("cache max_age: %w", err)
	}
	return d, nil
}

// OpenCache opens the cache the configuration asks for, or returns nil when
// caching is off.
func (c Config) OpenCache() (*internal.Cache, error) {
	if c.Cache.Dir == "" {
		return nil, nil
	}
	age, err := c.maxAge()
	if err != nil {
		return nil, err
	}
	cache, err := internal.NewCache(c.Cache.Dir)
	if err != nil {
		return nil, err
	}
	cache.SetMaxAge(age)
	return cache, nil
}

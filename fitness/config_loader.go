package fitness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects which metrics are computed and how.
type Config struct {
	Metrics        []string  `yaml:"metrics" json:"metrics"`
	RobustFactor   float64   `yaml:"robustFactor,omitempty" json:"robustFactor,omitempty"`
	InlierDistance float64   `yaml:"inlierDistance,omitempty" json:"inlierDistance,omitempty"`
	Index          IndexKind `yaml:"index,omitempty" json:"index,omitempty"`
	Workers        int       `yaml:"workers,omitempty" json:"workers,omitempty"` // 0 = one per CPU
}

// DefaultConfig returns a config scoring with the robust average on a k-d tree.
func DefaultConfig() Config {
	opts := DefaultMetricOptions()
	return Config{
		Metrics:        []string{MetricRobustAverage},
		RobustFactor:   opts.RobustFactor,
		InlierDistance: opts.InlierDistance,
		Index:          IndexKDTree,
	}
}

// MetricOptions extracts the metric parameters from the config.
func (c Config) MetricOptions() MetricOptions {
	return MetricOptions{
		RobustFactor:   c.RobustFactor,
		InlierDistance: c.InlierDistance,
	}
}

// Validate checks the config for values no metric can work with.
func (c Config) Validate() error {
	if len(c.Metrics) == 0 {
		return fmt.Errorf("at least one metric must be listed")
	}
	for i, name := range c.Metrics {
		if _, err := LookupMetric(name, c.MetricOptions()); err != nil {
			return fmt.Errorf("metrics[%d]: %w", i, err)
		}
	}
	if c.RobustFactor <= 1 {
		return fmt.Errorf("robustFactor must be greater than 1, got %g", c.RobustFactor)
	}
	if c.InlierDistance <= 0 {
		return fmt.Errorf("inlierDistance must be positive, got %g", c.InlierDistance)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Index {
	case IndexKDTree, IndexBruteForce:
	default:
		return fmt.Errorf("unknown index kind %q", c.Index)
	}
	return nil
}

// LoadConfig loads a YAML config file. Omitted fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	config.Metrics = nil
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if config.Metrics == nil {
		config.Metrics = DefaultConfig().Metrics
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

package buffer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/c360/ringbuffer/errors"
	"github.com/c360/ringbuffer/metric"
)

// DefaultCapacity is the capacity used when a configuration leaves it unset.
const DefaultCapacity = 1024

// Config describes a buffer in configuration files.
type Config struct {
	// Name identifies the buffer in logs and as the metrics component label
	Name string `json:"name,omitempty" yaml:"name,omitempty" schema:"type:string,description:Buffer name used in logs and metric labels,category:basic"`

	// Capacity is the maximum number of items held at once
	Capacity int `json:"capacity" yaml:"capacity" schema:"type:int,description:Maximum number of buffered items,default:1024,category:basic"`

	// OverflowPolicy selects what happens when a write finds the buffer full
	OverflowPolicy string `json:"overflow_policy" yaml:"overflow_policy" schema:"type:enum,description:Overflow behavior,enum:drop_oldest|drop_newest|reject|block,default:drop_oldest,category:basic"`

	// Metrics exports the buffer statistics to Prometheus
	Metrics bool `json:"metrics" yaml:"metrics" schema:"type:bool,description:Export Prometheus metrics,default:false,category:advanced"`

	// WriteTimeoutStr bounds Write under the block policy
	WriteTimeoutStr string `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty" schema:"type:string,description:Maximum wait for a blocked write,category:advanced"`

	policy       OverflowPolicy
	writeTimeout time.Duration
}

// DefaultConfig returns a drop-oldest buffer of DefaultCapacity items.
func DefaultConfig() Config {
	return Config{
		Capacity:       DefaultCapacity,
		OverflowPolicy: "drop_oldest",
	}
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c.Capacity < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"capacity must not be negative")
	}

	if c.OverflowPolicy == "" {
		c.OverflowPolicy = "drop_oldest"
	}
	policy, err := ParseOverflowPolicy(c.OverflowPolicy)
	if err != nil {
		return errors.WrapInvalid(err, "Config", "Validate", "overflow policy")
	}
	c.policy = policy

	c.writeTimeout = 0
	if c.WriteTimeoutStr != "" {
		timeout, err := time.ParseDuration(c.WriteTimeoutStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid write_timeout format: %s", c.WriteTimeoutStr))
		}
		if timeout < 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"write_timeout must not be negative")
		}
		if policy != Block && timeout > 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"write_timeout requires the block overflow policy")
		}
		c.writeTimeout = timeout
	}

	if policy == Block && c.Capacity == 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"block policy needs a positive capacity")
	}

	return nil
}

// Policy returns the parsed overflow policy. Valid after Validate.
func (c *Config) Policy() OverflowPolicy {
	return c.policy
}

// WriteTimeout returns the parsed write timeout. Valid after Validate.
func (c *Config) WriteTimeout() time.Duration {
	return c.writeTimeout
}

// ParseConfig decodes YAML onto DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(errors.ErrParsingFailed, "Config", "ParseConfig",
			fmt.Sprintf("yaml decode: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// New builds a circular buffer from cfg. When cfg.Metrics is set the buffer
// registers its metrics with registry under cfg.Name. Options given by the
// caller are applied after the ones derived from cfg.
func New[T any](cfg Config, registry *metric.MetricsRegistry, options ...Option[T]) (Buffer[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Metrics && registry == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "buffer", "New",
			"metrics enabled without a registry")
	}

	name := cfg.Name
	if name == "" {
		name = generateName()
	}

	opts := []Option[T]{
		WithName[T](name),
		WithOverflowPolicy[T](cfg.Policy()),
		WithWriteTimeout[T](cfg.WriteTimeout()),
	}
	if cfg.Metrics {
		opts = append(opts, WithMetrics[T](registry, name))
	}
	opts = append(opts, options...)

	return NewCircularBuffer(cfg.Capacity, opts...)
}

// generateName returns a short unique buffer name.
func generateName() string {
	return "buffer-" + uuid.NewString()[:8]
}

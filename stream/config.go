package stream

import (
	"fmt"
	"time"
)

// Config holds stream emission settings. The HTTP surface takes no
// parameters; these knobs exist for deployment tuning and tests.
type Config struct {
	// Count is the number of frames the counter stream emits before closing.
	Count int `yaml:"count" mapstructure:"count" validate:"gt=0,lte=1000"`
	// Interval is the spacing between frames.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults sets the demo defaults: ten frames, one per second.
func (c *Config) ApplyDefaults() {
	if c.Count == 0 {
		c.Count = 10
	}
	if c.Interval == 0 {
		c.Interval = time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("stream.count must be positive (got: %d)", c.Count)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("stream.interval must be positive (got: %s)", c.Interval)
	}
	return nil
}

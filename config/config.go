// Package config defines the tickstream service configuration and the
// loader that populates it from config.yml, .env files, and environment
// variables.
package config

import (
	"fmt"

	"github.com/kbukum/tickstream/logger"
	"github.com/kbukum/tickstream/server"
	"github.com/kbukum/tickstream/stream"
	"github.com/kbukum/tickstream/telemetry"
	"github.com/kbukum/tickstream/validation"
)

// Config is the root configuration for the tickstream service.
type Config struct {
	Name        string           `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string           `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config    `yaml:"logging" mapstructure:"logging"`
	Server      server.Config    `yaml:"server" mapstructure:"server"`
	Stream      stream.Config    `yaml:"stream" mapstructure:"stream"`
	Telemetry   telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults applies default values to all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "tickstream"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	// Propagate service name into logging so Init uses the right tag.
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Stream.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate validates tag constraints and each section.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("config.stream: %w", err)
	}
	return nil
}

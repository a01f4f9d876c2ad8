package logger

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Config is the logging section.
type Config struct {
	// ServiceName is stamped on every line; it defaults to the service name.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	Level       string `yaml:"level" mapstructure:"level"`
	// Format is console, pretty or json.
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stdout or stderr.
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`

	// Writer, when set, replaces Output. Tests capture lines with it.
	Writer io.Writer `yaml:"-" mapstructure:"-"`
}

var formats = map[string]bool{"console": true, FormatPretty: true, "json": true}

// ApplyDefaults logs info-level console lines to stdout. Timestamps are
// always on.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = zerolog.InfoLevel.String()
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil || c.Level == "" {
		return fmt.Errorf("logging.level %q is not a zerolog level", c.Level)
	}
	if !formats[c.Format] {
		return fmt.Errorf("logging.format must be console, pretty or json (got: %s)", c.Format)
	}
	if c.Output != "stdout" && c.Output != "stderr" {
		return fmt.Errorf("logging.output must be stdout or stderr (got: %s)", c.Output)
	}
	return nil
}

package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/voicekit/server/middleware"
	"github.com/kbukum/voicekit/util"
)

// Config is the server section. Durations decode from strings like "90s".
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`

	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// ShutdownTimeout bounds the drain of in-flight requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// MaxBodySize caps request bodies, e.g. "30MB". Audio uploads are the
	// largest bodies the API accepts.
	MaxBodySize string `yaml:"max_body_size" mapstructure:"max_body_size"`

	CORS middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// Addr is host:port.
func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c *Config) ApplyDefaults() {
	setDuration(&c.ReadTimeout, time.Minute)
	// transcribe-and-polish makes two provider calls of up to two minutes
	// each in the worst case; 150s covers the common slow path.
	setDuration(&c.WriteTimeout, 150*time.Second)
	setDuration(&c.IdleTimeout, time.Minute)
	setDuration(&c.ShutdownTimeout, 10*time.Second)
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "30MB"
	}
	c.CORS.ApplyDefaults()
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("server.port out of range: %d", c.Port)
	case c.ReadTimeout < 0, c.WriteTimeout < 0, c.IdleTimeout < 0, c.ShutdownTimeout < 0:
		return errors.New("server: timeouts must not be negative")
	}
	if c.MaxBodySize != "" {
		if n, err := util.ParseSize(c.MaxBodySize); err != nil || n == 0 {
			return fmt.Errorf("server.max_body_size %q is not a positive size", c.MaxBodySize)
		}
	}
	return nil
}

package bootstrap

import (
	"github.com/kbukum/voicekit/config"
)

// Config is satisfied by any pointer to a struct that embeds
// config.ServiceConfig and defines its own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

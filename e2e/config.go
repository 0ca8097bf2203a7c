package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_POLL_TIMEOUT bounds how long the in-process daemon holds a poll open
	PollTimeout time.Duration `envconfig:"E2E_POLL_TIMEOUT" default:"200ms"`
	// E2E_SCENARIO_TIMEOUT bounds one whole scenario
	ScenarioTimeout time.Duration `envconfig:"E2E_SCENARIO_TIMEOUT" default:"10s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

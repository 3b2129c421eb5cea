package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type remoteEnv struct {
	BaseURL string        `env:"REMOTE_BASE_URL,required"`
	Timeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`
}

type remote struct {
	raw remoteEnv
}

func NewRemoteConfig() (*remote, error) {
	var raw remoteEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &remote{raw: raw}, nil
}

func (cfg *remote) BaseURL() string        { return cfg.raw.BaseURL }
func (cfg *remote) Timeout() time.Duration { return cfg.raw.Timeout }

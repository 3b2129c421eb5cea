package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type syncEnv struct {
	FlushInterval  time.Duration `env:"SYNC_FLUSH_INTERVAL" envDefault:"30s"`
	DebounceWindow time.Duration `env:"SYNC_DEBOUNCE_WINDOW" envDefault:"100ms"`
	BusBuffer      int           `env:"SYNC_BUS_BUFFER" envDefault:"64"`
}

type syncCfg struct {
	raw syncEnv
}

func NewSyncConfig() (*syncCfg, error) {
	var raw syncEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &syncCfg{raw: raw}, nil
}

func (cfg *syncCfg) FlushInterval() time.Duration  { return cfg.raw.FlushInterval }
func (cfg *syncCfg) DebounceWindow() time.Duration { return cfg.raw.DebounceWindow }
func (cfg *syncCfg) BusBuffer() int                { return cfg.raw.BusBuffer }

package envconfig

import "github.com/caarlos0/env/v11"

type snapshotEnv struct {
	Backend string `env:"SNAPSHOT_BACKEND" envDefault:"redis"`
	Key     string `env:"SNAPSHOT_KEY" envDefault:"inventory:snapshot"`
}

type snapshot struct {
	raw snapshotEnv
}

func NewSnapshotConfig() (*snapshot, error) {
	var raw snapshotEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &snapshot{raw: raw}, nil
}

func (cfg *snapshot) Backend() string { return cfg.raw.Backend }
func (cfg *snapshot) Key() string     { return cfg.raw.Key }

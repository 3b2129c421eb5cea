package envconfig

import "github.com/caarlos0/env/v11"

// Redis settings are only required when SNAPSHOT_BACKEND=redis, so nothing
// here is marked required.
type redisEnv struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type redisCfg struct {
	raw redisEnv
}

func NewRedisConfig() (*redisCfg, error) {
	var raw redisEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &redisCfg{raw: raw}, nil
}

func (cfg *redisCfg) Addr() string     { return cfg.raw.Addr }
func (cfg *redisCfg) Password() string { return cfg.raw.Password }
func (cfg *redisCfg) DB() int          { return cfg.raw.DB }

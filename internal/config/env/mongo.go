package envconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Mongo settings are only required when SNAPSHOT_BACKEND=mongo, so nothing
// here is marked required.
type mongoEnv struct {
	Host               string `env:"MONGO_HOST" envDefault:"localhost"`
	Port               int    `env:"MONGO_PORT" envDefault:"27017"`
	User               string `env:"MONGO_INITDB_ROOT_USERNAME" envDefault:"root"`
	Password           string `env:"MONGO_INITDB_ROOT_PASSWORD" envDefault:"root"`
	DBName             string `env:"MONGO_DATABASE" envDefault:"inventory"`
	AuthDB             string `env:"MONGO_AUTH_DB" envDefault:"admin"`
	SnapshotCollection string `env:"MONGO_SNAPSHOT_COLLECTION" envDefault:"snapshots"`
}

type mongo struct {
	raw mongoEnv
}

func NewMongoConfig() (*mongo, error) {
	var raw mongoEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &mongo{raw: raw}, nil
}

func (cfg *mongo) DatabaseName() string {
	return cfg.raw.DBName
}

func (cfg *mongo) SnapshotCollection() string {
	return cfg.raw.SnapshotCollection
}

func (cfg *mongo) DSN() string {
	return fmt.Sprintf(
		"mongodb://%s:%s@%s:%d/%s?authSource=%s",
		cfg.raw.User,
		cfg.raw.Password,
		cfg.raw.Host,
		cfg.raw.Port,
		cfg.raw.DBName,
		cfg.raw.AuthDB,
	)
}

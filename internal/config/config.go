package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/omrozmn/x-ear-sub010/internal/config/env"
)

var cfg *config

type config struct {
	Logger   Logger
	Remote   Remote
	Snapshot Snapshot
	Redis    Redis
	Mongo    Mongo
	Kafka    Kafka
	Sync     Sync
}

func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return fmt.Errorf("%s Logger: %w", op, err)
	}

	remoteCfg, err := envconfig.NewRemoteConfig()
	if err != nil {
		return fmt.Errorf("%s Remote: %w", op, err)
	}

	snapshotCfg, err := envconfig.NewSnapshotConfig()
	if err != nil {
		return fmt.Errorf("%s Snapshot: %w", op, err)
	}

	redisCfg, err := envconfig.NewRedisConfig()
	if err != nil {
		return fmt.Errorf("%s Redis: %w", op, err)
	}

	mongoCfg, err := envconfig.NewMongoConfig()
	if err != nil {
		return fmt.Errorf("%s Mongo: %w", op, err)
	}

	kafkaCfg, err := envconfig.NewKafkaConfig()
	if err != nil {
		return fmt.Errorf("%s Kafka: %w", op, err)
	}

	syncCfg, err := envconfig.NewSyncConfig()
	if err != nil {
		return fmt.Errorf("%s Sync: %w", op, err)
	}

	cfg = &config{
		Logger:   loggerCfg,
		Remote:   remoteCfg,
		Snapshot: snapshotCfg,
		Redis:    redisCfg,
		Mongo:    mongoCfg,
		Kafka:    kafkaCfg,
		Sync:     syncCfg,
	}

	return nil
}

func C() *config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}

package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Logger interface {
	Level() string
	AsJSON() bool
}

type Remote interface {
	BaseURL() string
	Timeout() time.Duration
}

// Snapshot selects and parameterizes the durable-snapshot backend.
type Snapshot interface {
	Backend() string
	Key() string
}

type Redis interface {
	Addr() string
	Password() string
	DB() int
}

type Mongo interface {
	DatabaseName() string
	SnapshotCollection() string
	DSN() string
}

type Kafka interface {
	Brokers() []string
	ConfirmationTopic() string
	ConfirmationConsumerGroupID() string
	LowStockTopic() string
	ConfirmationConsumerConfig() *sarama.Config
	LowStockProducerConfig() *sarama.Config
}

type Sync interface {
	FlushInterval() time.Duration
	DebounceWindow() time.Duration
	BusBuffer() int
}

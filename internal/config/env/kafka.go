package envconfig

import (
	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

type kafkaEnv struct {
	Brokers                     []string `env:"KAFKA_BROKERS,required"`
	ConfirmationTopicName       string   `env:"CREATE_CONFIRMATION_TOPIC_NAME,required"`
	ConfirmationConsumerGroupID string   `env:"CREATE_CONFIRMATION_CONSUMER_GROUP_ID,required"`
	LowStockTopicName           string   `env:"LOW_STOCK_TOPIC_NAME,required"`
}

type kafka struct {
	raw kafkaEnv
}

func NewKafkaConfig() (*kafka, error) {
	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &kafka{raw: raw}, nil
}

func (cfg *kafka) Brokers() []string         { return cfg.raw.Brokers }
func (cfg *kafka) ConfirmationTopic() string { return cfg.raw.ConfirmationTopicName }
func (cfg *kafka) LowStockTopic() string     { return cfg.raw.LowStockTopicName }

func (cfg *kafka) ConfirmationConsumerGroupID() string {
	return cfg.raw.ConfirmationConsumerGroupID
}

func (cfg *kafka) ConfirmationConsumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	return config
}

func (cfg *kafka) LowStockProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	return config
}

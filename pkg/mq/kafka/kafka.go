package kafka

import (
	"sync"

	"github.com/IBM/sarama"

	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

var defaultProducer *KafkaProducer

var startOnce sync.Once

func initKafka() {
	startOnce.Do(func() {
		sarama.Logger = NewLoggerKafka(logger.DefaultL1().Named("kafka-core"), LOGGER_INFO)
		sarama.DebugLogger = NewLoggerKafka(logger.DefaultL1().Named("kafka-core-debug"), LOGGER_DEBUG)
	})
}

func SetupKafkaProducer(brokers []string, cfg KafkaProducerConfig) error {
	initKafka()
	producer, err := NewKafkaProducer(brokers, cfg)
	if err != nil {
		return err
	}
	defaultProducer = producer
	return nil
}

func GetProducer() *KafkaProducer {
	return defaultProducer
}

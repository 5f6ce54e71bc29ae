package kafka

import (
	"context"

	"github.com/Iphint/Sayurku/config"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// CreateKafkaProducer dials the partition leader for the configured topic.
// Event publishing is optional: with no broker configured this returns nil
// and the services skip publishing.
func CreateKafkaProducer(config *config.Config) *kafka.Conn {
	if config.KafkaConfig.BrokerAddress == "" {
		log.Info().Str("component", "CreateKafkaProducer").Msg("no broker configured, event publishing disabled")
		return nil
	}

	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		panic(err)
	}

	return conn
}

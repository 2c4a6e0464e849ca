package broker

import (
	"fmt"

	"modgate/internal/config"
	"modgate/internal/logger"
)

func NewProducer(cfg config.BrokerConfig, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case "kafka":
		return NewKafkaProducer(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

func NewConsumer(cfg config.BrokerConfig, log logger.Logger) (Consumer, error) {
	return NewConsumerWithGroup(cfg, cfg.Kafka.GroupID, log)
}

// NewConsumerWithGroup creates a consumer bound to an explicit consumer
// group, used when a service runs more than one subscription.
func NewConsumerWithGroup(cfg config.BrokerConfig, groupID string, log logger.Logger) (Consumer, error) {
	switch cfg.Type {
	case "kafka":
		kafkaCfg := cfg.Kafka
		kafkaCfg.GroupID = groupID
		return NewKafkaConsumer(kafkaCfg, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

// Package queue publishes domain events on NATS or RabbitMQ.
package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/pkg/config"
)

// Supported values of queue.driver.
const (
	DriverNATS     = "nats"
	DriverRabbitMQ = "rabbitmq"
	DriverNone     = "none"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Ping() error
	Close() error
}

// New connects the broker selected by cfg.Driver. It returns (nil, nil) for
// the "none" driver.
func New(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Driver {
	case DriverNATS:
		return NewNATSQueue(cfg.NATSURL, log)
	case DriverRabbitMQ:
		return NewRabbitMQQueue(cfg.RabbitMQURL, log)
	case DriverNone, "":
		log.Info("Event publishing disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}

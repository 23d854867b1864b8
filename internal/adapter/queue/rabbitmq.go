package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

// RabbitMQQueue implements MessageQueue with one fanout exchange per subject.
type RabbitMQQueue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	declared map[string]bool
	closed   bool
	mu       sync.RWMutex
	log      *zap.Logger
}

// NewRabbitMQQueue creates a new RabbitMQ message queue adapter
func NewRabbitMQQueue(url string, log *zap.Logger) (MessageQueue, error) {
	conn, ch, err := dialRabbitMQ(url)
	if err != nil {
		return nil, err
	}

	q := &RabbitMQQueue{
		conn:     conn,
		channel:  ch,
		url:      url,
		declared: make(map[string]bool),
		log:      log,
	}

	go q.monitorConnection(conn)

	log.Info("Successfully connected to RabbitMQ")
	return q, nil
}

func dialRabbitMQ(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	return conn, ch, nil
}

// declareExchange must be called with q.mu held for writing.
func (q *RabbitMQQueue) declareExchange(subject string) error {
	if q.declared[subject] {
		return nil
	}
	if err := q.channel.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	q.declared[subject] = true
	return nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil || q.channel.IsClosed() {
		return errors.New("rabbitmq: channel not available")
	}
	if err := q.declareExchange(subject); err != nil {
		return err
	}

	err := q.channel.Publish(
		subject, "", false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         data,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}

	return nil
}

func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil || q.channel.IsClosed() {
		return errors.New("rabbitmq: channel not available")
	}
	if err := q.declareExchange(subject); err != nil {
		return err
	}

	queue, err := q.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}

	if err := q.channel.QueueBind(queue.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}

	msgs, err := q.channel.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("exchange", subject),
					zap.Error(err),
				)
			}
		}
	}()

	q.log.Info("Subscribed to RabbitMQ exchange", zap.String("exchange", subject))
	return nil
}

func (q *RabbitMQQueue) Ping() error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.conn == nil || q.conn.IsClosed() {
		return errors.New("rabbitmq: connection closed")
	}
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *RabbitMQQueue) monitorConnection(conn *amqp.Connection) {
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || reason == nil {
			return
		}
		q.log.Warn("RabbitMQ connection lost, reconnecting", zap.String("reason", reason.Reason))

		for {
			time.Sleep(reconnectDelay)

			q.mu.RLock()
			closed := q.closed
			q.mu.RUnlock()
			if closed {
				return
			}

			newConn, ch, err := dialRabbitMQ(q.url)
			if err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}

			q.mu.Lock()
			q.conn = newConn
			q.channel = ch
			q.declared = make(map[string]bool)
			q.mu.Unlock()

			q.log.Info("Successfully reconnected to RabbitMQ")
			conn = newConn
			break
		}
	}
}

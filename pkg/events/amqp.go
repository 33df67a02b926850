package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/c3g/chord-project-service/pkg/config"
)

const (
	publishTimeout = 5 * time.Second
	dialTimeout    = 5 * time.Second
	reconnectDelay = 5 * time.Second
	heartbeat      = 10 * time.Second
)

// ErrDisconnected is returned for events dropped while the broker is unreachable.
var ErrDisconnected = errors.New("not connected to AMQP broker")

type channel interface {
	PublishWithContext(
		ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing,
	) error
	Close() error
}

// AMQPPublisher publishes events to a durable topic exchange. While the broker is
// unreachable events are dropped at once and a single background goroutine redials,
// so a request never waits on a connection attempt.
type AMQPPublisher struct {
	mu           sync.Mutex
	url          string
	exchange     string
	logger       *logrus.Logger
	conn         *amqp.Connection
	channel      channel
	reconnecting bool
	closed       bool
	done         chan struct{}
	retryDelay   time.Duration
	dial         func() (*amqp.Connection, channel, error)
}

func newAMQPPublisher(logger *logrus.Logger, url, exchange string) *AMQPPublisher {
	publisher := &AMQPPublisher{
		url:        url,
		exchange:   exchange,
		logger:     logger,
		done:       make(chan struct{}),
		retryDelay: reconnectDelay,
	}
	publisher.dial = publisher.connect

	return publisher
}

func NewAMQPPublisher(logger *logrus.Logger, url, exchange string) (*AMQPPublisher, error) {
	publisher := newAMQPPublisher(logger, url, exchange)

	conn, ch, err := publisher.dial()
	if err != nil {
		return nil, err
	}

	publisher.conn = conn
	publisher.channel = ch

	logger.WithField("exchange", exchange).Info("Publishing project events")

	return publisher, nil
}

func (p *AMQPPublisher) connect() (*amqp.Connection, channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to AMQP broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, nil, errors.Wrap(err, "failed to open AMQP channel")
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, errors.Wrapf(err, "failed to declare exchange %q", p.exchange)
	}

	return conn, ch, nil
}

// disconnect and reconnect expect p.mu to be held.
func (p *AMQPPublisher) disconnect() {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}

	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) reconnect() {
	if p.reconnecting || p.closed {
		return
	}

	p.reconnecting = true

	go p.redial()
}

func (p *AMQPPublisher) redial() {
	for {
		conn, ch, err := p.dial()

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()

			if err == nil {
				_ = ch.Close()
				if conn != nil {
					_ = conn.Close()
				}
			}

			return
		}

		if err == nil {
			p.conn = conn
			p.channel = ch
			p.reconnecting = false
			p.mu.Unlock()

			p.logger.WithField("exchange", p.exchange).Info("Reconnected to AMQP broker")

			return
		}
		p.mu.Unlock()

		p.logger.WithError(err).Warnf("AMQP reconnect failed, retrying in %v", p.retryDelay)

		select {
		case <-p.done:
			return
		case <-time.After(p.retryDelay):
		}
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		p.reconnect()

		return errors.Wrapf(ErrDisconnected, "dropped %s", routingKey)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	}); err != nil {
		p.disconnect()
		p.reconnect()

		return errors.Wrapf(err, "failed to publish %s", routingKey)
	}

	p.logger.WithFields(logrus.Fields{
		"exchange":    p.exchange,
		"routing_key": routingKey,
		"bytes":       len(body),
	}).Debug("Published event")

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.done)
	}

	p.disconnect()

	return nil
}

// NewPublisher returns an AMQP publisher when AMQP_URL is set and a no-op one otherwise.
//
//nolint:ireturn
func NewPublisher(logger *logrus.Logger, cfg *config.Config) (Publisher, error) {
	if cfg.AMQPURL == "" {
		return NoopPublisher{}, nil
	}

	return NewAMQPPublisher(logger, cfg.AMQPURL, cfg.AMQPExchange)
}

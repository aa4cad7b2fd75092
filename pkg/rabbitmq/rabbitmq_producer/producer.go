package rabbitmq_producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"listing-site/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig - куда публиковать. Обменник объявляется при каждом открытии канала,
// так что после переподключения он гарантированно существует.
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName string
	ExchangeType string // direct, fanout, topic, headers
	Durable      bool

	Logger rabbitmq_common.Logger
}

func (c PublisherConfig) validate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ExchangeName == "" || c.ExchangeType == "" {
		return fmt.Errorf("producer: exchange name and type are required")
	}
	return nil
}

type channelSource interface {
	Channel() (*amqp.Channel, error)
}

// Publisher публикует сообщения в один обменник. Канал открывается лениво
// и переоткрывается, если брокер его закрыл.
type Publisher struct {
	config PublisherConfig
	source channelSource
	Logger rabbitmq_common.Logger

	mu      sync.Mutex
	channel *amqp.Channel
	closed  bool
}

func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid publisher config: %w", err)
	}
	p := &Publisher{config: cfg, source: connManager, Logger: rabbitmq_common.LoggerOrDiscard(cfg.Logger)}

	// Открываем канал сразу, чтобы ошибки конфигурации обменника всплыли на старте
	p.mu.Lock()
	_, err := p.ensureChannel()
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ensureChannel вызывается под mu
func (p *Publisher) ensureChannel() (*amqp.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	ch, err := p.source.Channel()
	if err != nil {
		return nil, fmt.Errorf("producer: %w", err)
	}
	err = ch.ExchangeDeclare(p.config.ExchangeName, p.config.ExchangeType, p.config.Durable, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
	}

	p.Logger.Debug("Producer channel opened", "exchange", p.config.ExchangeName, "type", p.config.ExchangeType)
	p.channel = ch
	return ch, nil
}

// Publish отправляет сообщение. Если канал оказался закрыт, делается одна попытка на новом канале.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("producer: publisher is closed")
	}

	for attempt := 0; ; attempt++ {
		ch, err := p.ensureChannel()
		if err != nil {
			return err
		}

		err = ch.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
		if err == nil {
			return nil
		}
		if attempt > 0 || !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("producer: failed to publish message: %w", err)
		}
		p.Logger.Warn("Producer channel closed, reopening", "routing_key", routingKey)
		p.channel = nil
	}
}

// PublishJSON сериализует payload и публикует его как persistent-сообщение
func (p *Publisher) PublishJSON(ctx context.Context, routingKey, messageType string, headers amqp.Table, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("producer: failed to marshal payload: %w", err)
	}
	return p.Publish(ctx, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         messageType,
		Headers:      headers,
		Body:         body,
	})
}

// Close закрывает канал; соединение принадлежит ConnectionManager
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.channel == nil || p.channel.IsClosed() {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing channel")
		return err
	}
	p.Logger.Info("Producer closed.")
	return nil
}

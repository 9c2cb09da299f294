package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/xws/internal/domain"
)

// Ошибки обработки сообщений.
var (
	// ErrSkip — обработчик намеренно пропустил сообщение (например,
	// повторную доставку). Сообщение подтверждается.
	ErrSkip = errors.New("message skipped")

	// ErrMalformedMessage — сообщение не удалось разобрать.
	ErrMalformedMessage = errors.New("malformed message")
)

// Handler — функция обработки сообщения.
//
// nil или ошибка с ErrSkip в цепочке подтверждают сообщение,
// любая другая ошибка отправляет его в DLQ.
type Handler func(ctx context.Context, msg *Delivery) error

// Delivery — доставленное сообщение.
type Delivery struct {
	// Message — распарсенное сообщение.
	Message Message

	// Redelivered — сообщение уже доставлялось раньше.
	Redelivered bool
}

// Outcome — решение по доставленному сообщению.
type Outcome int

const (
	// OutcomeAck — сообщение обработано или пропущено.
	OutcomeAck Outcome = iota

	// OutcomeReject — сообщение уходит в DLQ, повторов нет.
	OutcomeReject
)

// String возвращает строковое представление Outcome.
func (o Outcome) String() string {
	if o == OutcomeAck {
		return "ack"
	}
	return "reject"
}

// Settle возвращает решение по результату обработчика.
func Settle(err error) Outcome {
	if err == nil || errors.Is(err, ErrSkip) {
		return OutcomeAck
	}
	return OutcomeReject
}

// InvocationHandler обрабатывает запрос на выполнение сервиса.
type InvocationHandler func(ctx context.Context, inv domain.Invocation) error

// HandleInvocations адаптирует InvocationHandler к Handler.
//
// Сообщения другого типа и payload, который не разбирается как
// domain.Invocation, возвращают ErrMalformedMessage.
func HandleInvocations(h InvocationHandler) Handler {
	return func(ctx context.Context, d *Delivery) error {
		if d.Message.Type != MessageTypeInvocationRequested {
			return fmt.Errorf("%w: unexpected type %q", ErrMalformedMessage, d.Message.Type)
		}
		inv, err := ParsePayload[domain.Invocation](&d.Message)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		return h(ctx, inv)
	}
}

// acknowledger подтверждает или отклоняет доставку (amqp.Delivery).
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consumer потребляет сообщения из очереди RabbitMQ.
type Consumer struct {
	conn     *Connection
	logger   *slog.Logger
	queue    string
	handler  Handler
	prefetch int

	cancelFunc context.CancelFunc
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Queue — имя очереди.
	Queue string

	// Handler — обработчик сообщений.
	Handler Handler

	// Prefetch — количество сообщений для предварительной загрузки.
	Prefetch int
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}

	return &Consumer{
		conn:     conn,
		logger:   logger,
		queue:    cfg.Queue,
		handler:  cfg.Handler,
		prefetch: prefetch,
	}
}

// NewInvocationConsumer создаёт Consumer очереди invocations.requested.
func NewInvocationConsumer(conn *Connection, logger *slog.Logger, h InvocationHandler, prefetch int) *Consumer {
	return NewConsumer(conn, logger, ConsumerConfig{
		Queue:    string(QueueInvocationsRequested),
		Handler:  HandleInvocations(h),
		Prefetch: prefetch,
	})
}

// Start запускает потребление сообщений.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	// Запускаем основной цикл потребления
	return c.consume(ctx)
}

// consume — основной цикл потребления.
func (c *Consumer) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Получаем канал доставки
		deliveries, err := c.setupConsume()
		if err != nil {
			c.logger.Error("failed to setup consume", "queue", c.queue, "error", err)
			// Ждём переподключения
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.conn.ReconnectNotify():
				c.logger.Info("reconnected, restarting consumer", "queue", c.queue)
				continue
			}
		}

		c.logger.Info("consumer started", "queue", c.queue)

		// Обрабатываем сообщения
		if err := c.processDeliveries(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("deliveries channel closed, reconnecting", "queue", c.queue)
			// Канал закрыт, ждём переподключения
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.conn.ReconnectNotify():
				continue
			}
		}
	}
}

// setupConsume настраивает канал и начинает потребление.
func (c *Consumer) setupConsume() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNoChannel
	}

	// Устанавливаем prefetch
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	// Начинаем потребление
	deliveries, err := ch.Consume(
		c.queue, // queue
		"",      // consumer tag (auto-generated)
		false,   // auto-ack (мы ack вручную)
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// processDeliveries обрабатывает сообщения из канала.
func (c *Consumer) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			c.handleDelivery(ctx, raw.Body, raw.Redelivered, raw)
		}
	}
}

// handleDelivery обрабатывает одно сообщение и подтверждает
// или отклоняет его согласно Settle.
func (c *Consumer) handleDelivery(ctx context.Context, body []byte, redelivered bool, ack acknowledger) Outcome {
	logger := c.logger.With("queue", c.queue)

	var msg Message
	err := json.Unmarshal(body, &msg)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		logger = logger.With("body", string(body))
	} else {
		logger = logger.With("message_id", msg.ID, "type", msg.Type)
		logger.Debug("received message", "redelivered", redelivered)

		err = c.handler(ctx, &Delivery{Message: msg, Redelivered: redelivered})
	}

	outcome := Settle(err)
	if outcome == OutcomeReject {
		// повторов нет: сообщение уходит в DLQ
		logger.Error("message rejected", "error", err)
		if nerr := ack.Nack(false, false); nerr != nil {
			logger.Warn("nack failed", "error", nerr)
		}
		return outcome
	}

	if err != nil {
		logger.Debug("message skipped", "reason", err)
	}
	if aerr := ack.Ack(false); aerr != nil {
		logger.Warn("ack failed", "error", aerr)
	}
	return outcome
}

// Stop останавливает consumer.
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
}

// ParsePayload парсит payload сообщения в указанный тип.
func ParsePayload[T any](msg *Message) (T, error) {
	var result T

	// Payload может быть уже распарсен как map или быть raw json
	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}

	if err := json.Unmarshal(payloadBytes, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}

	return result, nil
}

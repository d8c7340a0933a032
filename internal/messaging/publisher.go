package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"story-server/internal/interfaces"
	"story-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Compile-time check
var _ interfaces.StoryEventPublisher = (*rabbitMQStoryEventPublisher)(nil)

// rabbitMQStoryEventPublisher публикует события жизненного цикла историй в
// очередь RabbitMQ для внешних потребителей (индексация, уведомления).
type rabbitMQStoryEventPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQStoryEventPublisher creates a publisher for the given queue.
// Паблишер объявляет очередь сам, чтобы не зависеть от порядка запуска
// сервисов; параметры должны совпадать с консьюмером.
func NewRabbitMQStoryEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (interfaces.StoryEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("story event publisher: не удалось открыть канал: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("story event publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}

	return &rabbitMQStoryEventPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("StoryEventPublisher"),
	}, nil
}

// PublishStoryEvent publishes a lifecycle event.
func (p *rabbitMQStoryEventPublisher) PublishStoryEvent(ctx context.Context, payload models.StoryEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal story event",
			zap.String("eventID", payload.EventID),
			zap.String("type", string(payload.Type)),
			zap.Error(err))
		return fmt.Errorf("ошибка сериализации события %s: %w", payload.EventID, err)
	}

	if err := p.publishMessage(ctx, body); err != nil {
		p.logger.Error("Failed to publish story event",
			zap.String("eventID", payload.EventID),
			zap.String("type", string(payload.Type)),
			zap.Error(err))
		return fmt.Errorf("ошибка публикации события %s: %w", payload.EventID, err)
	}

	p.logger.Debug("Story event published",
		zap.String("eventID", payload.EventID),
		zap.String("type", string(payload.Type)),
		zap.String("storyID", payload.StoryID))
	return nil
}

func (p *rabbitMQStoryEventPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	// Попытка публикации с retry до 3 раз
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (используем default)
			p.queueName, // routing key (имя очереди)
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "story-server",
			},
		)
		if err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
	return err
}

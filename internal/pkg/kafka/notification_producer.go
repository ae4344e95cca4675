package kafka

import (
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/api/dto"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NotificationMessage 投递到通知主题的消息体
type NotificationMessage struct {
	UserID    uint64               `json:"user_id"`
	Kind      string               `json:"kind"`
	Payload   *dto.NotificationDTO `json:"payload"`
	CreatedAt time.Time            `json:"created_at"`
}

// NotificationProducer 以用户 ID 为 key 投递，同一用户的通知有序
type NotificationProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewNotificationProducer(cfg *config.Config) (*NotificationProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return newNotificationProducer(producer, cfg.KafkaNotificationProducer.Topic), nil
}

func newNotificationProducer(producer sarama.SyncProducer, topic string) *NotificationProducer {
	return &NotificationProducer{
		producer: producer,
		topic:    topic,
	}
}

func (s *NotificationProducer) PublishNotification(ctx context.Context, userID uint64, notification *dto.NotificationDTO) error {
	if notification == nil {
		return nil
	}
	body, err := json.Marshal(&NotificationMessage{
		UserID:    userID,
		Kind:      notification.Kind(),
		Payload:   notification,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(userID, 10)),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "notification published",
		"user_id", userID, "kind", notification.Kind(), "partition", partition, "offset", offset)
	return nil
}

func (s *NotificationProducer) Close() error {
	return s.producer.Close()
}

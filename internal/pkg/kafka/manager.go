package kafka

import (
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	activityConsumer sarama.ConsumerGroup
	activityHandler  sarama.ConsumerGroupHandler
	activityTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, gamificationSvc service.GamificationService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	activityConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaActivityConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		activityConsumer: activityConsumer,
		activityHandler:  NewActivityHandler(gamificationSvc),
		activityTopic:    cfg.KafkaActivityConsumer.Topic,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.activityConsumer.Errors() {
			log.Error("activity consumer group error", "err", err)
		}
	}()

	go func() {
		log.Info("Activity consumer started", "topic", m.activityTopic)
		for {
			if err := m.activityConsumer.Consume(ctx, []string{m.activityTopic}, m.activityHandler); err != nil {
				log.Error("Error from consumer", "err", err)
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.activityConsumer.Close(); err != nil {
		log.Error("Failed to close activity consumer", "err", err)
	}
	return nil
}

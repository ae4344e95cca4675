package kafka

import (
	"MarketPulse/internal/api/dto"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
)

func TestPublishNotification(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "gamification.notification" {
			return fmt.Errorf("topic = %s", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return fmt.Errorf("key = %s, want 42", key)
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var body NotificationMessage
		if err = json.Unmarshal(value, &body); err != nil {
			return err
		}
		if body.UserID != 42 || body.Kind != "streak_milestone" || body.Payload.StreakMilestone.Days != 7 {
			return fmt.Errorf("body = %+v", body)
		}
		return nil
	})

	p := newNotificationProducer(mock, "gamification.notification")
	err := p.PublishNotification(context.Background(), 42, &dto.NotificationDTO{
		StreakMilestone: &dto.StreakMilestoneDTO{Days: 7, PointsEarned: 14},
	})
	if err != nil {
		t.Fatalf("PublishNotification() error = %v", err)
	}
	if err = p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPublishNotificationSkipsNil(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	p := newNotificationProducer(mock, "gamification.notification")
	if err := p.PublishNotification(context.Background(), 1, nil); err != nil {
		t.Fatalf("PublishNotification(nil) error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPublishNotificationFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newNotificationProducer(mock, "gamification.notification")
	err := p.PublishNotification(context.Background(), 1, &dto.NotificationDTO{LevelUp: &dto.LevelUpDTO{NewLevel: 2}})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("PublishNotification() error = %v, want ErrOutOfBrokers", err)
	}
	_ = p.Close()
}

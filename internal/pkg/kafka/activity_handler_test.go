package kafka

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/service"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/IBM/sarama"
)

type fakeGamificationService struct {
	calls []ActivityEvent
	err   error
}

func (f *fakeGamificationService) TrackActivity(_ context.Context, userID uint64, activityType model.ActivityType, targetID string, pointsEarned *int64) (*service.TrackResult, error) {
	f.calls = append(f.calls, ActivityEvent{
		UserID:       userID,
		ActivityType: string(activityType),
		TargetID:     targetID,
		PointsEarned: pointsEarned,
	})
	if f.err != nil {
		return nil, f.err
	}
	return &service.TrackResult{Notification: &dto.NotificationDTO{LevelUp: &dto.LevelUpDTO{NewLevel: 2}}}, nil
}

func message(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "gamification.activity", Offset: 7, Value: []byte(value)}
}

func TestActivityHandlerLogic(t *testing.T) {
	svc := &fakeGamificationService{}
	h := NewActivityHandler(svc)
	ctx := context.Background()

	err := h.logic(ctx, message(`{"user_id":3,"activity_type":"read_article","target_id":"a-1","points_earned":12}`))
	if err != nil {
		t.Fatalf("logic() error = %v", err)
	}
	if len(svc.calls) != 1 {
		t.Fatalf("TrackActivity called %d times, want 1", len(svc.calls))
	}
	call := svc.calls[0]
	if call.UserID != 3 || call.ActivityType != "read_article" || call.TargetID != "a-1" || *call.PointsEarned != 12 {
		t.Fatalf("TrackActivity called with %+v", call)
	}

	if err = h.logic(ctx, message(`{"user_id":3,"activity_type":"like_article"}`)); err != nil {
		t.Fatalf("logic() error = %v", err)
	}
	if svc.calls[1].PointsEarned != nil {
		t.Fatalf("missing points_earned should stay nil")
	}
}

func TestActivityHandlerDropsBadMessages(t *testing.T) {
	svc := &fakeGamificationService{}
	h := NewActivityHandler(svc)
	ctx := context.Background()

	for _, v := range []string{
		`not json`,
		`{"user_id":3,"activity_type":"share_article"}`,
		`{"user_id":3,"activity_type":"read_article","points_earned":-5}`,
		`{"user_id":3,"activity_type":"read_article","target_id":"` + strings.Repeat("a", 65) + `"}`,
	} {
		if err := h.logic(ctx, message(v)); err != nil {
			t.Fatalf("logic(%s) error = %v, want dropped", v, err)
		}
	}
	if len(svc.calls) != 0 {
		t.Fatalf("TrackActivity called for undecodable messages")
	}

	svc.err = service.ErrUserIDMissing
	if err := h.logic(ctx, message(`{"activity_type":"read_article"}`)); err != nil {
		t.Fatalf("logic() error = %v, want validation failures dropped", err)
	}
}

func TestActivityHandlerRetriesStorageErrors(t *testing.T) {
	cause := errors.New("connection refused")
	svc := &fakeGamificationService{err: &service.PersistenceError{Step: "track_activity", Err: cause}}
	h := NewActivityHandler(svc)

	err := h.logic(context.Background(), message(`{"user_id":3,"activity_type":"read_article"}`))
	if err == nil {
		t.Fatalf("logic() error = nil, want storage error returned for retry")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("logic() error = %v, want wrapped cause", err)
	}
}

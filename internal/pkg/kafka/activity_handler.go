package kafka

import (
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/logger"
	"MarketPulse/internal/pkg/util"
	"MarketPulse/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ActivityEvent 其他服务投递的用户行为
type ActivityEvent struct {
	UserID       uint64 `json:"user_id"`
	ActivityType string `json:"activity_type" validate:"required,max=32"`
	TargetID     string `json:"target_id" validate:"max=64"`
	PointsEarned *int64 `json:"points_earned" validate:"omitempty,min=0"`
}

type ActivityHandler struct {
	gamificationSvc service.GamificationService
}

func NewActivityHandler(gamificationSvc service.GamificationService) *ActivityHandler {
	return &ActivityHandler{
		gamificationSvc: gamificationSvc,
	}
}

func (s *ActivityHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer setup")
	return nil
}

func (s *ActivityHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer cleanup")
	return nil
}

func (s *ActivityHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-activity consume claim", "partition", claim.Partition())
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-activity process batch error", "err", err)
		return err
	}
	return nil
}

// logic 无法解析或校验失败的消息直接丢弃，只有存储失败才重试
func (s *ActivityHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event ActivityEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.WarnContext(ctx, "drop malformed activity event", "offset", msg.Offset, "err", err)
		return nil
	}
	if err := util.ValidateDTO(&event); err != nil {
		log.WarnContext(ctx, "drop invalid activity event", "offset", msg.Offset, "err", err)
		return nil
	}
	ctx = logger.WithUserID(ctx, event.UserID)

	activityType, ok := model.ParseActivityType(event.ActivityType)
	if !ok {
		log.WarnContext(ctx, "drop activity event with unknown type",
			"offset", msg.Offset, "activity_type", event.ActivityType)
		return nil
	}

	res, err := s.gamificationSvc.TrackActivity(ctx, event.UserID, activityType, event.TargetID, event.PointsEarned)
	if err != nil {
		if service.IsValidationError(err) {
			log.WarnContext(ctx, "drop invalid activity event", "offset", msg.Offset, "err", err)
			return nil
		}
		return errors.Wrapf(err, "track activity user=%d offset=%d", event.UserID, msg.Offset)
	}

	log.InfoContext(ctx, "activity event tracked", "activity_type", activityType, "notification", res.Notification.Kind())
	return nil
}

package kafka

import (
	"MarketPulse/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second

	minRetryInterval = 100 * time.Millisecond
	maxRetryInterval = 5 * time.Second
)

// LogicFunc 返回 nil 表示消息已处理完毕，包括无法解析而被丢弃的消息
type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，失败的消息退避重试直到成功或会话结束
// 同一用户的消息由业务层的用户锁串行化
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			ctx := logger.WithTraceID(session.Context(), "kafka")
			retryWithBackoff(ctx, m, logic)
		}(msg)
	}

	wg.Wait()

	// 会话中断时可能有消息未处理完，不提交位点
	if len(messages) == 0 || session.Context().Err() != nil {
		return
	}
	session.MarkMessage(messages[len(messages)-1], "")
	session.Commit()
}

func retryWithBackoff(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	retryInterval := minRetryInterval
	for {
		err := logic(ctx, m)
		if err == nil {
			return
		}

		log.ErrorContext(ctx, "process message error",
			"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryInterval):
		}

		retryInterval *= 2
		if retryInterval > maxRetryInterval {
			retryInterval = maxRetryInterval
		}
	}
}

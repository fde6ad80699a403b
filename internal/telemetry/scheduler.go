// Package telemetry 提供遥测调度与出口
//
// 全局不变式：任意两次发布（不分事件类型）的间隔不小于发布速率下限。
// 这是一个速率限制器而不是队列：发布顺序由控制循环决定，
// 调度器只保证最小间距，不保证投递（投递失败不重试）。
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wisefido-node/internal/models"
)

// Scheduler 遥测调度器
// 所有事件类型共享同一份发布预算（单一时间戳）。
// 预算在提交时刻记账：被迫等待过的发布不会把等待时间再转嫁给下一次提交
type Scheduler struct {
	interval  time.Duration
	clock     Clock
	publisher Publisher
	logger    *zap.Logger

	lastSubmit time.Time
}

// NewScheduler 创建遥测调度器
func NewScheduler(interval time.Duration, clock Clock, publisher Publisher, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		interval:  interval,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// TimeUntilEligible 距离下一次可发布还需等待的时长
// 返回0表示立即可发布
func (s *Scheduler) TimeUntilEligible(now time.Time) time.Duration {
	if s.lastSubmit.IsZero() {
		return 0
	}
	remaining := s.interval - now.Sub(s.lastSubmit)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Emit 发布一个事件，必要时阻塞等待发布预算
// 传输错误原样返回，调用方不应重试（投递是传输层的责任）
func (s *Scheduler) Emit(ctx context.Context, kind models.EventKind, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	submitted := s.clock.Now()
	if wait := s.TimeUntilEligible(submitted); wait > 0 {
		s.clock.Sleep(wait)
	}
	s.lastSubmit = submitted

	event := Event{
		EventID: uuid.New().String(),
		Kind:    kind,
		Payload: data,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", kind, err)
	}

	s.logger.Debug("Event published",
		zap.String("event_id", event.EventID),
		zap.String("kind", string(kind)),
	)
	return nil
}

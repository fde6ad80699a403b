// Package presence 提供在场状态判定
//
// 仅由最近一次无线电接触时间推导：
// - 从未接触（零值时间戳）→ Unknown
// - 静默时长 ≥ 超时 → NotHere
// - 否则 → Here
// 首次接触之后不会再回到 Unknown
package presence

import (
	"time"

	"go.uber.org/zap"

	"wisefido-node/internal/models"
)

// Machine 在场状态机
type Machine struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewMachine 创建在场状态机
func NewMachine(timeout time.Duration, logger *zap.Logger) *Machine {
	return &Machine{
		timeout: timeout,
		logger:  logger,
	}
}

// Evaluate 每次轮询评估一次
// changed 仅在标签实际变化时为true，用于门控状态事件的发布
func (m *Machine) Evaluate(now, lastContact time.Time, current models.PresenceLabel) (models.PresenceLabel, bool) {
	var label models.PresenceLabel
	switch {
	case lastContact.IsZero():
		label = models.PresenceUnknown
	case now.Sub(lastContact) >= m.timeout:
		label = models.PresenceNotHere
	default:
		label = models.PresenceHere
	}

	if label == current {
		return label, false
	}

	m.logger.Info("Presence changed",
		zap.String("from", current.String()),
		zap.String("to", label.String()),
	)
	return label, true
}

// Package motion 提供运动分类功能
//
// 主要功能：
// - 将原始三轴采样换算为加速度模长（g）
// - 自由落体检测：模长低于阈值持续超过确认时长才判定跌倒
// - 短暂低谷（未达确认时长即恢复）静默丢弃，不产生任何信号
// - 每次物理跌倒最多确认一次，确认后有抑制窗口防止报警风暴
package motion

import (
	"math"
	"time"

	"go.uber.org/zap"

	"wisefido-node/internal/models"
)

// FallState 跌倒检测状态
type FallState int

const (
	FallIdle FallState = iota
	FallFalling
)

// FallDetector 自由落体检测器
//
// 两状态机 {Idle, Falling}：
// - Idle → Falling：模长 < 阈值（抑制窗口内不进入）
// - Falling → Idle（确认）：持续低于阈值达到确认时长，产生一次确认信号
// - Falling → Idle（丢弃）：模长恢复 ≥ 阈值，无任何信号
type FallDetector struct {
	scale       float64       // 原始读数 → g 的刻度因子
	thresholdG  float64       // 自由落体阈值
	minDuration time.Duration // 确认时长
	cooldown    time.Duration // 确认后抑制窗口

	state         FallState
	fallStart     time.Time // 仅在Falling状态有效
	cooldownUntil time.Time

	logger *zap.Logger
}

// NewFallDetector 创建自由落体检测器
func NewFallDetector(scale, thresholdG float64, minDuration, cooldown time.Duration, logger *zap.Logger) *FallDetector {
	return &FallDetector{
		scale:       scale,
		thresholdG:  thresholdG,
		minDuration: minDuration,
		cooldown:    cooldown,
		logger:      logger,
	}
}

// Sample 处理一次采样，返回模长（g）与是否确认跌倒
func (d *FallDetector) Sample(s models.MotionSample) (float64, bool) {
	mag := d.Magnitude(s)
	now := s.At

	if mag < d.thresholdG {
		switch d.state {
		case FallIdle:
			// 抑制窗口内不重新进入Falling
			if now.Before(d.cooldownUntil) {
				return mag, false
			}
			d.state = FallFalling
			d.fallStart = now
			d.logger.Debug("Free-fall episode started",
				zap.Float64("magnitude_g", mag),
			)
		case FallFalling:
			if elapsed := now.Sub(d.fallStart); elapsed >= d.minDuration {
				// 跌倒确认，强制回到Idle并开启抑制窗口
				d.state = FallIdle
				d.fallStart = time.Time{}
				d.cooldownUntil = now.Add(d.cooldown)
				d.logger.Warn("Fall confirmed",
					zap.Duration("duration", elapsed),
					zap.Float64("magnitude_g", mag),
				)
				return mag, true
			}
		}
		return mag, false
	}

	// 模长恢复：短暂低谷静默丢弃
	if d.state == FallFalling {
		d.logger.Debug("Free-fall episode discarded",
			zap.Duration("duration", now.Sub(d.fallStart)),
		)
		d.state = FallIdle
		d.fallStart = time.Time{}
	}
	return mag, false
}

// Magnitude 计算采样的加速度模长（g）
func (d *FallDetector) Magnitude(s models.MotionSample) float64 {
	axG := float64(s.AX) / d.scale
	ayG := float64(s.AY) / d.scale
	azG := float64(s.AZ) / d.scale
	return math.Sqrt(axG*axG + ayG*ayG + azG*azG)
}

// State 返回当前检测状态
func (d *FallDetector) State() FallState {
	return d.state
}

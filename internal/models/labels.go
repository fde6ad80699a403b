package models

import "time"

// PresenceLabel 在场状态标签
// 由最近一次无线电接触时间推导，Unknown 仅在首次接触前可达
type PresenceLabel int

const (
	PresenceUnknown PresenceLabel = iota
	PresenceHere
	PresenceNotHere
)

// String 返回上报用的状态文本
func (p PresenceLabel) String() string {
	switch p {
	case PresenceHere:
		return "here"
	case PresenceNotHere:
		return "not here"
	default:
		return "unknown"
	}
}

// Orientation 体位标签（粘滞：信号落在迟滞带内时保持上一次的值）
type Orientation string

const (
	OrientationStanding  Orientation = "standing"
	OrientationLyingDown Orientation = "lying down"
)

// MotionSample 单次加速度计采样（原始 ADC 读数，按次采集不保留）
type MotionSample struct {
	AX int16
	AY int16
	AZ int16
	At time.Time // 单调采集时间戳
}

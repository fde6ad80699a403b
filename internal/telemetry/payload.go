package telemetry

import (
	"fmt"
	"math"

	"wisefido-node/internal/models"
)

// Snapshot 发布时刻的节点状态快照，payload构建的唯一输入
type Snapshot struct {
	Name           string // 学习到的设备名，可为空
	Address        string
	LastSeenMillis int64 // 开机毫秒数
	LastRSSI       int
	Presence       models.PresenceLabel
	Department     string
	Orientation    models.Orientation
	TemperatureC   float64
	Latitude       float64
	Longitude      float64
	UptimeMillis   int64
}

// MapsLink 生成位置链接
func MapsLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lon)
}

// NewStatusPayload 构建状态快照事件载荷
func NewStatusPayload(s Snapshot) models.StatusPayload {
	return models.StatusPayload{
		Name:        s.Name,
		Address:     s.Address,
		LastSeen:    s.LastSeenMillis,
		LastRSSI:    s.LastRSSI,
		Status:      s.Presence.String(),
		Location:    MapsLink(s.Latitude, s.Longitude),
		Department:  s.Department,
		Orientation: string(s.Orientation),
		Temperature: round2(s.TemperatureC),
	}
}

// NewPeriodicStatusPayload 构建周期状态事件载荷
func NewPeriodicStatusPayload(s Snapshot) models.PeriodicStatusPayload {
	return models.PeriodicStatusPayload{
		Orientation: string(s.Orientation),
		Department:  s.Department,
		Temperature: round2(s.TemperatureC),
		Timestamp:   s.UptimeMillis,
	}
}

// NewDepartmentPayload 构建科室事件载荷
func NewDepartmentPayload(department string, rssi int, uptimeMillis int64) models.DepartmentPayload {
	return models.DepartmentPayload{
		Department: department,
		RSSI:       rssi,
		Timestamp:  uptimeMillis,
	}
}

// NewFallingPayload 构建跌倒报警事件载荷
func NewFallingPayload(s Snapshot) models.FallingPayload {
	return models.FallingPayload{
		Alert:       "falling",
		Name:        s.Name,
		Address:     s.Address,
		Status:      s.Presence.String(),
		Location:    MapsLink(s.Latitude, s.Longitude),
		Department:  s.Department,
		Orientation: string(s.Orientation),
		Temperature: round2(s.TemperatureC),
	}
}

// NewLocationPayload 构建位置事件载荷
func NewLocationPayload(s Snapshot) models.LocationPayload {
	return models.LocationPayload{
		Name:        s.Name,
		Lat:         s.Latitude,
		Lon:         s.Longitude,
		RSSI:        s.LastRSSI,
		Link:        MapsLink(s.Latitude, s.Longitude),
		Department:  s.Department,
		Orientation: string(s.Orientation),
		Temperature: round2(s.TemperatureC),
	}
}

// round2 温度保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

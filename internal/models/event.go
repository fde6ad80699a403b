package models

// EventKind 遥测事件类型
type EventKind string

const (
	EventStatus         EventKind = "status"
	EventPeriodicStatus EventKind = "periodic_status"
	EventDepartment     EventKind = "department"
	EventFalling        EventKind = "falling"
	EventLocation       EventKind = "location"
)

// StatusPayload 状态快照事件
// 在场状态变化时发布，包含完整的设备/体位/温度快照
type StatusPayload struct {
	Name        string  `json:"name,omitempty"`
	Address     string  `json:"address"`
	LastSeen    int64   `json:"lastSeen"`
	LastRSSI    int     `json:"lastRSSI"`
	Status      string  `json:"status"`
	Location    string  `json:"location"`
	Department  string  `json:"department"`
	Orientation string  `json:"orientation"`
	Temperature float64 `json:"temperature"`
}

// PeriodicStatusPayload 周期状态事件（默认每 5 分钟）
type PeriodicStatusPayload struct {
	Orientation string  `json:"orientation"`
	Department  string  `json:"department"`
	Temperature float64 `json:"temperature"`
	Timestamp   int64   `json:"timestamp"`
}

// DepartmentPayload 科室/区域事件
type DepartmentPayload struct {
	Department string `json:"department"`
	RSSI       int    `json:"rssi"`
	Timestamp  int64  `json:"timestamp"`
}

// FallingPayload 跌倒报警事件
type FallingPayload struct {
	Alert       string  `json:"alert"`
	Name        string  `json:"name,omitempty"`
	Address     string  `json:"address"`
	Status      string  `json:"status"`
	Location    string  `json:"location"`
	Department  string  `json:"department"`
	Orientation string  `json:"orientation"`
	Temperature float64 `json:"temperature"`
}

// LocationPayload 位置事件（仅在位置推送开启且设备在场时发布）
type LocationPayload struct {
	Name        string  `json:"name,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	RSSI        int     `json:"rssi"`
	Link        string  `json:"link"`
	Department  string  `json:"department"`
	Orientation string  `json:"orientation"`
	Temperature float64 `json:"temperature"`
}

package telemetry

import (
	"context"

	"wisefido-node/internal/models"
)

// Event 遥测事件信封
type Event struct {
	EventID string           // 事件唯一标识
	Kind    models.EventKind // 事件类型
	Payload []byte           // 序列化后的JSON载荷
}

// Publisher 遥测出口端口
// 假定为至少一次、尽力而为的推送通道；发布失败不由调度器重试
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

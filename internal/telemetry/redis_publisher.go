package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisPublisher Redis Streams遥测出口
// 供节点直接接入数据管道的部署使用（无MQTT代理的场合）
type RedisPublisher struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewRedisPublisher 创建Redis Streams遥测出口
func NewRedisPublisher(client *redis.Client, stream string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Publish 使用XADD命令追加事件
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_id":  event.EventID,
			"kind":      string(event.Kind),
			"data":      string(event.Payload),
			"timestamp": time.Now().Unix(),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event %s to stream %s: %w", event.EventID, p.stream, err)
	}
	return nil
}

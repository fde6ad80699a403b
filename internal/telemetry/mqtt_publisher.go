package telemetry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wisefido-node/internal/mqtt"
)

// MQTTPublisher MQTT遥测出口
// 事件发布到 node/{client_id}/event/{kind}，载荷为JSON
type MQTTPublisher struct {
	client   *mqtt.Client
	clientID string
	qos      byte
	logger   *zap.Logger
}

// NewMQTTPublisher 创建MQTT遥测出口
func NewMQTTPublisher(client *mqtt.Client, clientID string, qos byte, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		client:   client,
		clientID: clientID,
		qos:      qos,
		logger:   logger,
	}
}

// Publish 发布事件
func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	topic := fmt.Sprintf("node/%s/event/%s", p.clientID, event.Kind)
	if err := p.client.Publish(topic, p.qos, false, event.Payload); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventID, err)
	}
	return nil
}

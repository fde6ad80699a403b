package control

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wisefido-node/internal/mqtt"
)

// Consumer MQTT命令消费者
// 订阅 node/{client_id}/cmd，把收到的文本命令交给解释器执行
type Consumer struct {
	client      *mqtt.Client
	topic       string
	qos         byte
	interpreter *Interpreter
	logger      *zap.Logger
}

// NewConsumer 创建命令消费者
func NewConsumer(client *mqtt.Client, clientID string, qos byte, interpreter *Interpreter, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:      client,
		topic:       fmt.Sprintf("node/%s/cmd", clientID),
		qos:         qos,
		interpreter: interpreter,
		logger:      logger,
	}
}

// Start 启动消费者
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.client.Subscribe(c.topic, c.qos, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to command topic: %w", err)
	}

	c.logger.Info("Command consumer started",
		zap.String("topic", c.topic),
	)
	return nil
}

// Stop 停止消费者
func (c *Consumer) Stop(ctx context.Context) error {
	if err := c.client.Unsubscribe(c.topic); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.Error(err))
	}

	c.logger.Info("Command consumer stopped")
	return nil
}

// handleMessage 处理一条命令消息
func (c *Consumer) handleMessage(topic string, payload []byte) error {
	code := c.interpreter.Execute(string(payload))

	c.logger.Debug("Command executed",
		zap.String("command", string(payload)),
		zap.Int("code", code),
	)
	return nil
}

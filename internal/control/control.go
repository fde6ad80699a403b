// Package control 提供对外的命令界面
//
// 单一命令入口：字符串命令 → 整数返回码。
// 命令只切换开关或强制触发事件，不包含任何检测逻辑。
package control

import (
	"strings"

	"go.uber.org/zap"
)

// 命令返回码
const (
	CodeDisabled    = 0  // 位置推送关闭
	CodeEnabled     = 1  // 位置推送开启
	CodeFall        = 2  // 强制跌倒报警
	CodeDepartment1 = 3  // 强制上报1号科室
	CodeDepartment2 = 4  // 强制上报2号科室
	CodeInfo        = 5  // 强制周期状态上报
	CodeInvalid     = -1 // 非法命令，不改变任何状态
)

// Node 命令界面驱动的节点操作
type Node interface {
	SetLocationPush(enabled bool)
	TriggerFall()
	TriggerDepartment(slot int)
	TriggerPeriodicStatus()
}

// Interpreter 命令解释器
type Interpreter struct {
	node   Node
	logger *zap.Logger
}

// NewInterpreter 创建命令解释器
func NewInterpreter(node Node, logger *zap.Logger) *Interpreter {
	return &Interpreter{
		node:   node,
		logger: logger,
	}
}

// Execute 执行命令并返回整数码
// 命令不区分大小写，首尾空白被忽略
func (i *Interpreter) Execute(command string) int {
	cmd := strings.ToLower(strings.TrimSpace(command))

	switch cmd {
	case "true", "1", "on":
		i.node.SetLocationPush(true)
		i.logger.Info("Location push enabled")
		return CodeEnabled
	case "false", "0", "off":
		i.node.SetLocationPush(false)
		i.logger.Info("Location push disabled")
		return CodeDisabled
	case "fall":
		i.logger.Warn("Manual fall alert triggered")
		i.node.TriggerFall()
		return CodeFall
	case "arg1":
		i.logger.Info("Manual department report triggered", zap.Int("slot", 1))
		i.node.TriggerDepartment(1)
		return CodeDepartment1
	case "arg2":
		i.logger.Info("Manual department report triggered", zap.Int("slot", 2))
		i.node.TriggerDepartment(2)
		return CodeDepartment2
	case "info":
		i.logger.Info("Manual periodic status triggered")
		i.node.TriggerPeriodicStatus()
		return CodeInfo
	default:
		i.logger.Error("Invalid command",
			zap.String("command", command),
		)
		return CodeInvalid
	}
}

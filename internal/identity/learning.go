package identity

import (
	"fmt"

	"go.uber.org/zap"
)

// Indicator 学习模式指示灯端口（LED），由平台驱动实现
type Indicator interface {
	Set(on bool)
}

// NopIndicator 无指示灯部署用的空实现
type NopIndicator struct{}

// Set 空操作
func (NopIndicator) Set(on bool) {}

// Learner 学习模式管理器
//
// 按钮切换学习模式：进入时清除已保存身份并点亮指示灯；
// 学习期间第一个合格的扫描结果被捕获并持久化，随后自动退出；
// 再次按钮为手动退出。
type Learner struct {
	store     *Store
	indicator Indicator
	active    bool
	logger    *zap.Logger
}

// NewLearner 创建学习模式管理器
func NewLearner(store *Store, indicator Indicator, logger *zap.Logger) *Learner {
	if indicator == nil {
		indicator = NopIndicator{}
	}
	return &Learner{
		store:     store,
		indicator: indicator,
		logger:    logger,
	}
}

// Active 学习模式是否开启
func (l *Learner) Active() bool {
	return l.active
}

// Toggle 按钮切换学习模式
// 进入学习模式会清除已保存的身份
func (l *Learner) Toggle() error {
	if l.active {
		l.deactivate()
		l.logger.Info("Learning mode deactivated")
		return nil
	}

	if err := l.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear identity on learning entry: %w", err)
	}
	l.active = true
	l.indicator.Set(true)
	l.logger.Info("Learning mode activated, waiting for a nearby device")
	return nil
}

// Capture 捕获并持久化身份，成功后自动退出学习模式
func (l *Learner) Capture(address, name string) (*TrackedIdentity, error) {
	id := &TrackedIdentity{Address: address, Name: name}
	if err := l.store.Save(id); err != nil {
		return nil, fmt.Errorf("failed to persist learned identity: %w", err)
	}

	l.deactivate()
	l.logger.Info("Tracked identity learned",
		zap.String("address", address),
		zap.String("name", name),
	)
	return id, nil
}

func (l *Learner) deactivate() {
	l.active = false
	l.indicator.Set(false)
}

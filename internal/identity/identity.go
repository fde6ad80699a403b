// Package identity 管理被追踪的无线电身份
//
// 身份通过学习模式捕获（第一个非信标的扫描结果），持久化到本地文件，
// 跨重启保留。未配置身份时在场状态一直为 Unknown，这是预期稳态而非错误。
package identity

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TrackedIdentity 被追踪身份
type TrackedIdentity struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name,omitempty"`
}

// Store 身份持久化存储（EEPROM的文件等价物）
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore 创建身份存储
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load 读取已保存的身份
// 文件不存在返回 (nil, nil)：尚未学习过任何身份
func (s *Store) Load() (*TrackedIdentity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	var id TrackedIdentity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}
	if id.Address == "" {
		return nil, nil
	}
	return &id, nil
}

// Save 写入身份（每次学习捕获只写一次）
func (s *Store) Save(id *TrackedIdentity) error {
	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

// Clear 清除已保存的身份（进入学习模式时调用）
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear identity file: %w", err)
	}
	return nil
}

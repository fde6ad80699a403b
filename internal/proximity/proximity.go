// Package proximity 提供科室/区域信标分类
//
// 维护静态的信标地址 → 区域名映射（来自配置，运行期不可变）。
// 去重策略：区域变化立即上报；同区域驻留期间每个重复窗口最多上报一次。
// 区域标签不会自发回退到"无区域"，只在观测到不同信标时切换。
package proximity

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"wisefido-node/internal/config"
)

// Detection 一次应上报的区域检测结果
type Detection struct {
	Department string
	RSSI       int
}

// Classifier 区域分类器
type Classifier struct {
	beacons      []config.Beacon   // 保序，手动触发按槽位引用
	zones        map[string]string // 规范化地址 → 区域名
	repeatWindow time.Duration

	current       string    // 当前区域（空 = 无区域）
	lastPublished string    // 上次上报的区域
	lastContact   time.Time // 上次匹配到任意信标的时间

	logger *zap.Logger
}

// NewClassifier 创建区域分类器
func NewClassifier(beacons []config.Beacon, repeatWindow time.Duration, logger *zap.Logger) *Classifier {
	zones := make(map[string]string, len(beacons))
	for _, b := range beacons {
		zones[normalizeAddr(b.Address)] = b.Department
	}
	return &Classifier{
		beacons:      beacons,
		zones:        zones,
		repeatWindow: repeatWindow,
		logger:       logger,
	}
}

// OnScanResult 处理一条扫描结果
// matched 表示地址是否为已知信标；detection 非nil时应当上报
func (c *Classifier) OnScanResult(addr string, rssi int, now time.Time) (detection *Detection, matched bool) {
	dept, ok := c.zones[normalizeAddr(addr)]
	if !ok {
		return nil, false
	}

	c.current = dept
	c.logger.Debug("Department beacon detected",
		zap.String("department", dept),
		zap.Int("rssi", rssi),
	)

	// 上报条件：区域变化，或距上一次信标接触已超过重复窗口
	emit := dept != c.lastPublished ||
		(!c.lastContact.IsZero() && now.Sub(c.lastContact) > c.repeatWindow)
	c.lastContact = now

	if !emit {
		return nil, true
	}

	c.lastPublished = dept
	return &Detection{Department: dept, RSSI: rssi}, true
}

// Force 手动设定并上报指定区域（rssi=0）
func (c *Classifier) Force(dept string) Detection {
	c.current = dept
	c.lastPublished = dept
	return Detection{Department: dept, RSSI: 0}
}

// SlotDepartment 按配置顺序返回第slot个信标的区域名（slot从1开始）
func (c *Classifier) SlotDepartment(slot int) (string, bool) {
	if slot < 1 || slot > len(c.beacons) {
		return "", false
	}
	return c.beacons[slot-1].Department, true
}

// IsBeacon 判断地址是否为已知信标（学习模式下信标不可被学习为追踪身份）
func (c *Classifier) IsBeacon(addr string) bool {
	_, ok := c.zones[normalizeAddr(addr)]
	return ok
}

// Current 返回当前区域标签
func (c *Classifier) Current() string {
	return c.current
}

// LastContact 返回上次信标接触时间（用于扫描节拍判定）
func (c *Classifier) LastContact() time.Time {
	return c.lastContact
}

func normalizeAddr(addr string) string {
	return strings.ToUpper(strings.TrimSpace(addr))
}

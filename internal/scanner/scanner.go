package scanner

import "context"

// ScanResult 单个被发现设备
type ScanResult struct {
	Address string // 无线电地址（MAC格式）
	Name    string // 广播名称，可为空
	RSSI    int    // 信号强度（dBm）
}

// Scanner 短距无线电扫描端口
// 由平台相关的驱动实现，一次Scan为一个有界扫描周期
type Scanner interface {
	Scan(ctx context.Context) ([]ScanResult, error)
}

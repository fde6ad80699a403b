package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"wisefido-node/internal/scanner"
	"wisefido-node/internal/telemetry"
)

// fakeClock 假时钟：Sleep直接推进当前时间
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// capturePublisher 记录所有发布的事件
type capturePublisher struct {
	events []telemetry.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event telemetry.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) kinds() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, string(e.Kind))
	}
	return out
}

// fakeBus 脚本化的传感器总线：按当前设定的Z轴g值与温度回答寄存器读取
type fakeBus struct {
	azG     float64
	tempC   float64
	initErr error
}

func (b *fakeBus) WriteRegister(deviceAddr, reg, value byte) error {
	return b.initErr
}

func (b *fakeBus) ReadRegisters(deviceAddr, reg byte, n int) ([]byte, error) {
	switch reg {
	case 0x3B: // 加速度三轴，仅Z轴非零
		buf := make([]byte, 6)
		binary.BigEndian.PutUint16(buf[4:6], uint16(int16(b.azG*16384)))
		return buf, nil
	case 0x41: // 温度
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(int16((b.tempC-36.53)*340)))
		return buf, nil
	}
	return nil, fmt.Errorf("unexpected register read: 0x%02X", reg)
}

// fakeScanner 每次Scan弹出一批脚本化的扫描结果
type fakeScanner struct {
	queue [][]scanner.ScanResult
	err   error
}

func (f *fakeScanner) Scan(ctx context.Context) ([]scanner.ScanResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.queue) == 0 {
		return nil, nil
	}
	results := f.queue[0]
	f.queue = f.queue[1:]
	return results, nil
}

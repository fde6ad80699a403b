package sensor

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wisefido-node/internal/models"
)

// 加速度计寄存器布局（MPU6050兼容）
const (
	DefaultDeviceAddr byte = 0x68

	regPowerMgmt1 byte = 0x6B
	regAccelXOutH byte = 0x3B
	regTempOutH   byte = 0x41
)

// Accelerometer 三轴加速度计/温度计驱动
// 仅负责寄存器读写与字节解码，不含任何判定逻辑
type Accelerometer struct {
	bus    Bus
	addr   byte
	logger *zap.Logger
}

// NewAccelerometer 创建加速度计驱动
func NewAccelerometer(bus Bus, addr byte, logger *zap.Logger) *Accelerometer {
	return &Accelerometer{
		bus:    bus,
		addr:   addr,
		logger: logger,
	}
}

// Init 唤醒传感器
// 失败为非致命错误：本次会话禁用运动检测，由调用方降级处理
func (a *Accelerometer) Init() error {
	if a.bus == nil {
		return fmt.Errorf("sensor bus not available")
	}
	if err := a.bus.WriteRegister(a.addr, regPowerMgmt1, 0x00); err != nil {
		return fmt.Errorf("failed to wake accelerometer: %w", err)
	}
	return nil
}

// ReadSample 读取一次三轴原始采样
// 寄存器为大端有符号16位，x/y/z连续6字节
func (a *Accelerometer) ReadSample(now time.Time) (models.MotionSample, error) {
	data, err := a.bus.ReadRegisters(a.addr, regAccelXOutH, 6)
	if err != nil {
		return models.MotionSample{}, fmt.Errorf("failed to read accelerometer registers: %w", err)
	}
	if len(data) < 6 {
		return models.MotionSample{}, fmt.Errorf("short accelerometer read: got %d bytes", len(data))
	}

	return models.MotionSample{
		AX: int16(binary.BigEndian.Uint16(data[0:2])),
		AY: int16(binary.BigEndian.Uint16(data[2:4])),
		AZ: int16(binary.BigEndian.Uint16(data[4:6])),
		At: now,
	}, nil
}

// ReadTemperature 读取温度（摄氏度）
// 换算公式：raw/340 + 36.53
func (a *Accelerometer) ReadTemperature() (float64, error) {
	data, err := a.bus.ReadRegisters(a.addr, regTempOutH, 2)
	if err != nil {
		return 0, fmt.Errorf("failed to read temperature registers: %w", err)
	}
	if len(data) < 2 {
		return 0, fmt.Errorf("short temperature read: got %d bytes", len(data))
	}

	raw := int16(binary.BigEndian.Uint16(data[0:2]))
	return float64(raw)/340.0 + 36.53, nil
}

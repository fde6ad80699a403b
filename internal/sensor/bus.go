package sensor

// Bus 传感器总线端口
// 由平台相关的驱动实现（I2C等），节点只依赖该接口
type Bus interface {
	// WriteRegister 向设备寄存器写入单字节
	WriteRegister(deviceAddr, reg, value byte) error
	// ReadRegisters 从设备寄存器起始地址连续读取n字节
	ReadRegisters(deviceAddr, reg byte, n int) ([]byte, error)
}

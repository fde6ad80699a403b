package telemetry

import "time"

// Clock 时钟端口，调度器通过它等待发布预算，测试中可注入假时钟
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock 返回系统时钟
func SystemClock() Clock {
	return systemClock{}
}

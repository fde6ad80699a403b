package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"wisefido-node/internal/models"
	"wisefido-node/internal/proximity"
	"wisefido-node/internal/scanner"
	"wisefido-node/internal/telemetry"
)

// tick 执行一轮控制循环
//
// 顺序：命令 → 传感器采样/分类 → 扫描 → 在场评估 → 发布。
// 多个事件同轮就绪时按 科室 > 跌倒 > 状态 > 周期状态 的优先级发出
// （科室与跌倒是时延敏感的安全/临床信号）
func (s *NodeService) tick(ctx context.Context, now time.Time) {
	s.drainCommands(ctx, now)

	var fallPending bool
	if s.motionOK {
		fallPending = s.sampleMotion(now)
	}

	var deptPending *proximity.Detection
	if s.scan != nil && s.shouldScan(now) {
		deptPending = s.runScan(ctx, now)
	}

	label, presenceChanged := s.machine.Evaluate(now, s.lastSeen, s.presenceNow)
	s.presenceNow = label

	periodicDue := now.Sub(s.lastStatusAt) >= s.config.Timing.StatusInterval

	if deptPending != nil {
		s.emitDepartment(ctx, *deptPending, now)
	}
	if fallPending {
		s.emitFall(ctx, now)
	}
	if presenceChanged {
		s.emitStatus(ctx, now)
		if s.locationPush && label == models.PresenceHere {
			s.emitLocation(ctx, now)
		}
	}
	if periodicDue {
		s.emitPeriodicStatus(ctx, now)
		s.lastStatusAt = now
	}
}

// sampleMotion 读取一次采样并运行运动/体位分类，返回是否确认跌倒
func (s *NodeService) sampleMotion(now time.Time) bool {
	sample, err := s.accel.ReadSample(now)
	if err != nil {
		s.logger.Debug("Failed to read motion sample", zap.Error(err))
		return false
	}

	_, confirmed := s.fall.Sample(sample)

	azG := float64(sample.AZ) / s.config.Detection.AccelScale
	next := s.orient.Classify(s.orientation, azG)
	if next != s.orientation {
		s.logger.Info("Orientation changed",
			zap.String("orientation", string(next)),
		)
		s.orientation = next
	}

	if temp, err := s.accel.ReadTemperature(); err == nil {
		s.temperature = temp
	}

	return confirmed
}

// shouldScan 扫描节拍：追踪设备或科室信标超过重查窗口未见时才扫描
func (s *NodeService) shouldScan(now time.Time) bool {
	window := s.config.Timing.RecheckWindow
	return now.Sub(s.lastSeen) > window || now.Sub(s.prox.LastContact()) > window
}

// runScan 执行一次扫描并处理结果，返回待上报的科室检测（如有）
func (s *NodeService) runScan(ctx context.Context, now time.Time) *proximity.Detection {
	results, err := s.scan.Scan(ctx)
	if err != nil {
		s.logger.Warn("Radio scan failed", zap.Error(err))
		return nil
	}

	var pending *proximity.Detection
	for _, r := range results {
		det, stop := s.handleScanResult(r, now)
		if det != nil {
			pending = det
		}
		if stop {
			break
		}
	}
	return pending
}

// handleScanResult 处理单条扫描结果
// 优先级：科室信标 > 学习模式捕获 > 追踪设备匹配
func (s *NodeService) handleScanResult(r scanner.ScanResult, now time.Time) (*proximity.Detection, bool) {
	if det, matched := s.prox.OnScanResult(r.Address, r.RSSI, now); matched {
		return det, true
	}

	if s.learner.Active() {
		id, err := s.learner.Capture(r.Address, r.Name)
		if err != nil {
			s.logger.Error("Failed to capture identity", zap.Error(err))
			return nil, false
		}
		s.tracked = id
		return nil, true
	}

	if s.tracked != nil && strings.EqualFold(r.Address, s.tracked.Address) {
		s.lastSeen = now
		s.lastRSSI = r.RSSI
		s.logger.Debug("Tracked device detected",
			zap.Int("rssi", r.RSSI),
		)
		return nil, true
	}

	return nil, false
}

// drainCommands 在循环内执行排队的外部命令
func (s *NodeService) drainCommands(ctx context.Context, now time.Time) {
	for {
		select {
		case c := <-s.cmds:
			s.applyCommand(ctx, c, now)
		default:
			return
		}
	}
}

func (s *NodeService) applyCommand(ctx context.Context, c command, now time.Time) {
	switch c {
	case cmdLocationOn:
		s.locationPush = true
	case cmdLocationOff:
		s.locationPush = false
	case cmdFall:
		s.emitFall(ctx, now)
	case cmdDept1, cmdDept2:
		slot := 1
		if c == cmdDept2 {
			slot = 2
		}
		dept, ok := s.prox.SlotDepartment(slot)
		if !ok {
			s.logger.Error("No beacon configured for slot", zap.Int("slot", slot))
			return
		}
		det := s.prox.Force(dept)
		s.emitDepartment(ctx, det, now)
	case cmdInfo:
		s.emitPeriodicStatus(ctx, now)
	case cmdToggleLearning:
		if err := s.learner.Toggle(); err != nil {
			s.logger.Error("Failed to toggle learning mode", zap.Error(err))
			return
		}
		if s.learner.Active() {
			s.tracked = nil
		}
	}
}

// snapshot 采集发布时刻的状态快照
func (s *NodeService) snapshot(now time.Time) telemetry.Snapshot {
	snap := telemetry.Snapshot{
		LastRSSI:     s.lastRSSI,
		Presence:     s.presenceNow,
		Department:   s.prox.Current(),
		Orientation:  s.orientation,
		TemperatureC: s.temperature,
		Latitude:     s.config.Node.Latitude,
		Longitude:    s.config.Node.Longitude,
		UptimeMillis: s.uptime(now),
	}
	if s.tracked != nil {
		snap.Name = s.tracked.Name
		snap.Address = s.tracked.Address
	}
	if !s.lastSeen.IsZero() {
		snap.LastSeenMillis = s.uptime(s.lastSeen)
	}
	return snap
}

func (s *NodeService) uptime(t time.Time) int64 {
	return t.Sub(s.bootTime).Milliseconds()
}

// 发布失败不重试也不上抛：调度器只保证最小间距，投递是传输层的事

func (s *NodeService) emitStatus(ctx context.Context, now time.Time) {
	payload := telemetry.NewStatusPayload(s.snapshot(now))
	if err := s.scheduler.Emit(ctx, models.EventStatus, payload); err != nil {
		s.logger.Error("Failed to publish status", zap.Error(err))
	}
}

func (s *NodeService) emitPeriodicStatus(ctx context.Context, now time.Time) {
	payload := telemetry.NewPeriodicStatusPayload(s.snapshot(now))
	if err := s.scheduler.Emit(ctx, models.EventPeriodicStatus, payload); err != nil {
		s.logger.Error("Failed to publish periodic status", zap.Error(err))
	}
}

func (s *NodeService) emitDepartment(ctx context.Context, det proximity.Detection, now time.Time) {
	payload := telemetry.NewDepartmentPayload(det.Department, det.RSSI, s.uptime(now))
	if err := s.scheduler.Emit(ctx, models.EventDepartment, payload); err != nil {
		s.logger.Error("Failed to publish department", zap.Error(err))
	}
}

func (s *NodeService) emitFall(ctx context.Context, now time.Time) {
	payload := telemetry.NewFallingPayload(s.snapshot(now))
	if err := s.scheduler.Emit(ctx, models.EventFalling, payload); err != nil {
		s.logger.Error("Failed to publish fall alert", zap.Error(err))
	}
}

func (s *NodeService) emitLocation(ctx context.Context, now time.Time) {
	payload := telemetry.NewLocationPayload(s.snapshot(now))
	if err := s.scheduler.Emit(ctx, models.EventLocation, payload); err != nil {
		s.logger.Error("Failed to publish location", zap.Error(err))
	}
}

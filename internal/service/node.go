// Package service 组装节点并运行单协程控制循环
//
// 所有共享状态（标签、时间戳、发布预算）只在控制循环内被触碰，
// 外部命令通过队列进入循环，不存在并发写者。
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wisefido-node/internal/config"
	"wisefido-node/internal/control"
	"wisefido-node/internal/identity"
	"wisefido-node/internal/models"
	"wisefido-node/internal/motion"
	"wisefido-node/internal/mqtt"
	"wisefido-node/internal/presence"
	"wisefido-node/internal/proximity"
	rediscommon "wisefido-node/internal/redis"
	"wisefido-node/internal/scanner"
	"wisefido-node/internal/sensor"
	"wisefido-node/internal/telemetry"
)

// Drivers 平台相关的外部驱动，由嵌入方注入
// 任一驱动缺失时对应功能降级：无总线则禁用运动检测，无扫描器则在场保持Unknown
type Drivers struct {
	Bus       sensor.Bus
	Scanner   scanner.Scanner
	Indicator identity.Indicator
}

type command int

const (
	cmdLocationOn command = iota
	cmdLocationOff
	cmdFall
	cmdDept1
	cmdDept2
	cmdInfo
	cmdToggleLearning
)

// NodeService 节点服务
type NodeService struct {
	config *config.Config
	logger *zap.Logger
	clock  telemetry.Clock

	mqttClient  *mqtt.Client
	redisClient *rediscommon.Client
	consumer    *control.Consumer
	interpreter *control.Interpreter
	scheduler   *telemetry.Scheduler

	accel   *sensor.Accelerometer
	scan    scanner.Scanner
	fall    *motion.FallDetector
	orient  *motion.OrientationClassifier
	machine *presence.Machine
	prox    *proximity.Classifier
	store   *identity.Store
	learner *identity.Learner

	cmds chan command
	wg   sync.WaitGroup

	// 以下状态由控制循环独占
	bootTime     time.Time
	motionOK     bool
	tracked      *identity.TrackedIdentity
	lastSeen     time.Time
	lastRSSI     int
	presenceNow  models.PresenceLabel
	orientation  models.Orientation
	temperature  float64
	locationPush bool
	lastStatusAt time.Time
}

// NewNodeService 创建节点服务并连接遥测出口
func NewNodeService(cfg *config.Config, logger *zap.Logger, drivers Drivers) (*NodeService, error) {
	var (
		mqttClient  *mqtt.Client
		redisClient *rediscommon.Client
		publisher   telemetry.Publisher
	)

	switch cfg.Telemetry.Sink {
	case "redis":
		redisClient = rediscommon.NewRedisClient(&cfg.Redis)
		if err := rediscommon.Ping(context.Background(), redisClient); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = telemetry.NewRedisPublisher(redisClient, cfg.Redis.Stream, logger)
	case "", "mqtt":
		client, err := mqtt.NewClient(&cfg.MQTT, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MQTT: %w", err)
		}
		mqttClient = client
		publisher = telemetry.NewMQTTPublisher(client, cfg.Node.ClientID, cfg.MQTT.QoS, logger)
	default:
		return nil, fmt.Errorf("unknown telemetry sink: %s", cfg.Telemetry.Sink)
	}

	svc := newNodeService(cfg, logger, telemetry.SystemClock(), drivers, publisher)
	svc.mqttClient = mqttClient
	svc.redisClient = redisClient

	// 命令界面走MQTT；redis出口部署下命令只能通过Execute方法进入
	if mqttClient != nil {
		svc.consumer = control.NewConsumer(mqttClient, cfg.Node.ClientID, cfg.MQTT.QoS, svc.interpreter, logger)
	}

	return svc, nil
}

// newNodeService 组装分类器与调度器（传输由调用方提供）
func newNodeService(cfg *config.Config, logger *zap.Logger, clock telemetry.Clock, drivers Drivers, publisher telemetry.Publisher) *NodeService {
	svc := &NodeService{
		config:  cfg,
		logger:  logger,
		clock:   clock,
		scan:    drivers.Scanner,
		accel:   sensor.NewAccelerometer(drivers.Bus, sensor.DefaultDeviceAddr, logger),
		fall:    motion.NewFallDetector(cfg.Detection.AccelScale, cfg.Detection.FallThreshold, cfg.Detection.FallDuration, cfg.Detection.FallCooldown, logger),
		orient:  motion.NewOrientationClassifier(cfg.Detection.StandingMin, cfg.Detection.LyingMax),
		machine: presence.NewMachine(cfg.Timing.NotHereTimeout, logger),
		prox:    proximity.NewClassifier(cfg.Beacons, cfg.Timing.RepeatWindow, logger),
		cmds:    make(chan command, 16),
	}

	svc.store = identity.NewStore(cfg.Node.IdentityFile, logger)
	svc.learner = identity.NewLearner(svc.store, drivers.Indicator, logger)
	svc.scheduler = telemetry.NewScheduler(cfg.Timing.PublishLimit, clock, publisher, logger)
	svc.interpreter = control.NewInterpreter(svc, logger)

	return svc
}

// Start 启动服务
func (s *NodeService) Start(ctx context.Context) error {
	if err := s.begin(s.clock.Now()); err != nil {
		return err
	}

	if s.consumer != nil {
		if err := s.consumer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start command consumer: %w", err)
		}
	}

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Node service started",
		zap.String("client_id", s.config.Node.ClientID),
		zap.String("sink", s.config.Telemetry.Sink),
		zap.Bool("motion_detection", s.motionOK),
	)
	return nil
}

// begin 初始化控制循环状态
func (s *NodeService) begin(now time.Time) error {
	s.bootTime = now
	s.lastStatusAt = now
	s.presenceNow = models.PresenceUnknown
	s.orientation = models.OrientationLyingDown
	s.locationPush = s.config.Node.LocationPush

	// 传感器总线失败为非致命：本会话禁用运动检测，仅报告一次
	if err := s.accel.Init(); err != nil {
		s.logger.Warn("Accelerometer unavailable, motion detection disabled for this session",
			zap.Error(err),
		)
		s.motionOK = false
	} else {
		s.motionOK = true
	}

	tracked, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load tracked identity: %w", err)
	}
	s.tracked = tracked
	if tracked == nil {
		// 预期稳态：未学习身份时在场状态一直为Unknown
		s.logger.Warn("No tracked identity configured, press the button to enter learning mode")
	} else {
		s.logger.Info("Tracking device",
			zap.String("address", tracked.Address),
			zap.String("name", tracked.Name),
		)
	}

	return nil
}

// Stop 停止服务
func (s *NodeService) Stop(ctx context.Context) error {
	if s.consumer != nil {
		if err := s.consumer.Stop(ctx); err != nil {
			s.logger.Error("Error stopping command consumer", zap.Error(err))
		}
	}

	s.wg.Wait()

	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if s.redisClient != nil {
		if err := rediscommon.Close(s.redisClient); err != nil {
			s.logger.Error("Error closing redis client", zap.Error(err))
		}
	}

	s.logger.Info("Node service stopped")
	return nil
}

// run 控制循环
func (s *NodeService) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Timing.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, s.clock.Now())
		}
	}
}

// Execute 执行文本命令（命令界面的进程内入口）
func (s *NodeService) Execute(command string) int {
	return s.interpreter.Execute(command)
}

// PressButton 物理按钮事件：切换学习模式
func (s *NodeService) PressButton() {
	s.enqueue(cmdToggleLearning)
}

// SetLocationPush 切换位置推送
func (s *NodeService) SetLocationPush(enabled bool) {
	if enabled {
		s.enqueue(cmdLocationOn)
	} else {
		s.enqueue(cmdLocationOff)
	}
}

// TriggerFall 强制跌倒报警
func (s *NodeService) TriggerFall() {
	s.enqueue(cmdFall)
}

// TriggerDepartment 强制上报指定槽位的科室
func (s *NodeService) TriggerDepartment(slot int) {
	switch slot {
	case 1:
		s.enqueue(cmdDept1)
	case 2:
		s.enqueue(cmdDept2)
	}
}

// TriggerPeriodicStatus 强制周期状态上报
func (s *NodeService) TriggerPeriodicStatus() {
	s.enqueue(cmdInfo)
}

func (s *NodeService) enqueue(c command) {
	select {
	case s.cmds <- c:
	default:
		s.logger.Warn("Command queue full, dropping command")
	}
}

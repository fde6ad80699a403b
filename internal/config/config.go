package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// RedisConfig Redis配置（流式遥测出口）
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// Beacon 科室信标配置（地址 → 区域名，静态映射，运行期不可变）
type Beacon struct {
	Address    string `yaml:"address"`
	Department string `yaml:"department"`
}

// Config 节点配置
type Config struct {
	Node struct {
		ClientID     string  // 遥测主题与客户端标识
		IdentityFile string  // 学习到的追踪身份的持久化文件
		BeaconFile   string  // 信标映射YAML文件（为空时使用内置默认）
		Latitude     float64 // 部署位置坐标
		Longitude    float64
		LocationPush bool // 启动时是否开启位置推送
	}

	Detection struct {
		AccelScale    float64       // 原始读数 → g 的刻度因子（LSB/g）
		FallThreshold float64       // 自由落体判定阈值（g）
		FallDuration  time.Duration // 自由落体确认时长
		FallCooldown  time.Duration // 确认跌倒后的再检测抑制窗口
		StandingMin   float64       // 站立判定：az > StandingMin
		LyingMax      float64       // 卧倒判定：|az| < LyingMax
	}

	Timing struct {
		NotHereTimeout time.Duration // 无线电静默多久判定离开
		RecheckWindow  time.Duration // 扫描触发间隔
		PublishLimit   time.Duration // 全局发布速率下限（所有事件类型共享）
		StatusInterval time.Duration // 周期状态上报间隔
		RepeatWindow   time.Duration // 同区域重复上报窗口
		PollInterval   time.Duration // 控制循环节拍
	}

	Telemetry struct {
		Sink string // "mqtt" 或 "redis"
	}

	MQTT  MQTTConfig
	Redis RedisConfig

	Log struct {
		Level  string
		Format string
	}

	Beacons []Beacon
}

// Load 加载配置
// 默认值对应固件常量，环境变量覆盖
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Node.ClientID = getEnv("NODE_CLIENT_ID", "wisefido-node-01")
	cfg.Node.IdentityFile = getEnv("NODE_IDENTITY_FILE", "identity.yaml")
	cfg.Node.BeaconFile = getEnv("NODE_BEACON_FILE", "")
	cfg.Node.Latitude = getEnvFloat("NODE_LATITUDE", 10.0266)
	cfg.Node.Longitude = getEnvFloat("NODE_LONGITUDE", 76.3119)
	cfg.Node.LocationPush = getEnvBool("NODE_LOCATION_PUSH", false)

	cfg.Detection.AccelScale = getEnvFloat("DETECT_ACCEL_SCALE", 16384.0)
	cfg.Detection.FallThreshold = getEnvFloat("DETECT_FALL_THRESHOLD_G", 0.5)
	cfg.Detection.FallDuration = getEnvDuration("DETECT_FALL_DURATION", 300*time.Millisecond)
	cfg.Detection.FallCooldown = getEnvDuration("DETECT_FALL_COOLDOWN", time.Second)
	cfg.Detection.StandingMin = getEnvFloat("DETECT_STANDING_MIN_G", 0.7)
	cfg.Detection.LyingMax = getEnvFloat("DETECT_LYING_MAX_G", 0.4)

	cfg.Timing.NotHereTimeout = getEnvDuration("TIMING_NOT_HERE_TIMEOUT", 30*time.Second)
	cfg.Timing.RecheckWindow = getEnvDuration("TIMING_RECHECK_WINDOW", 7500*time.Millisecond)
	cfg.Timing.PublishLimit = getEnvDuration("TIMING_PUBLISH_LIMIT", 1100*time.Millisecond)
	cfg.Timing.StatusInterval = getEnvDuration("TIMING_STATUS_INTERVAL", 5*time.Minute)
	cfg.Timing.RepeatWindow = getEnvDuration("TIMING_REPEAT_WINDOW", 60*time.Second)
	cfg.Timing.PollInterval = getEnvDuration("TIMING_POLL_INTERVAL", 50*time.Millisecond)

	cfg.Telemetry.Sink = getEnv("TELEMETRY_SINK", "mqtt")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.Node.ClientID)
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0
	cfg.Redis.Stream = getEnv("REDIS_STREAM", "node:telemetry")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 信标映射：配置文件优先，否则使用内置默认
	if cfg.Node.BeaconFile != "" {
		beacons, err := LoadBeacons(cfg.Node.BeaconFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load beacon file: %w", err)
		}
		cfg.Beacons = beacons
	} else {
		cfg.Beacons = DefaultBeacons()
	}

	return cfg, nil
}

// DefaultBeacons 内置信标映射
func DefaultBeacons() []Beacon {
	return []Beacon{
		{Address: "AA:BB:CC:DD:EE:01", Department: "Pediatric dept"},
		{Address: "AA:BB:CC:DD:EE:02", Department: "Cardiac dept"},
	}
}

// LoadBeacons 从YAML文件加载信标映射
func LoadBeacons(path string) ([]Beacon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beacon file: %w", err)
	}

	var doc struct {
		Beacons []Beacon `yaml:"beacons"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse beacon file: %w", err)
	}
	if len(doc.Beacons) == 0 {
		return nil, fmt.Errorf("beacon file %s contains no beacons", path)
	}

	return doc.Beacons, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

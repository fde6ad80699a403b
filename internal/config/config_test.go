package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// 验证默认值（对应固件常量）
	assert.Equal(t, "wisefido-node-01", cfg.Node.ClientID)
	assert.Equal(t, "identity.yaml", cfg.Node.IdentityFile)
	assert.False(t, cfg.Node.LocationPush)

	assert.Equal(t, 16384.0, cfg.Detection.AccelScale)
	assert.Equal(t, 0.5, cfg.Detection.FallThreshold)
	assert.Equal(t, 300*time.Millisecond, cfg.Detection.FallDuration)
	assert.Equal(t, time.Second, cfg.Detection.FallCooldown)
	assert.Equal(t, 0.7, cfg.Detection.StandingMin)
	assert.Equal(t, 0.4, cfg.Detection.LyingMax)

	assert.Equal(t, 30*time.Second, cfg.Timing.NotHereTimeout)
	assert.Equal(t, 7500*time.Millisecond, cfg.Timing.RecheckWindow)
	assert.Equal(t, 1100*time.Millisecond, cfg.Timing.PublishLimit)
	assert.Equal(t, 5*time.Minute, cfg.Timing.StatusInterval)
	assert.Equal(t, 60*time.Second, cfg.Timing.RepeatWindow)

	assert.Equal(t, "mqtt", cfg.Telemetry.Sink)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "node:telemetry", cfg.Redis.Stream)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// 未配置信标文件时使用内置映射
	require.Len(t, cfg.Beacons, 2)
	assert.Equal(t, "Pediatric dept", cfg.Beacons[0].Department)
	assert.Equal(t, "Cardiac dept", cfg.Beacons[1].Department)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// 设置环境变量
	os.Setenv("NODE_CLIENT_ID", "node-42")
	os.Setenv("NODE_LOCATION_PUSH", "true")
	os.Setenv("DETECT_FALL_THRESHOLD_G", "0.6")
	os.Setenv("DETECT_FALL_DURATION", "250ms")
	os.Setenv("TIMING_NOT_HERE_TIMEOUT", "10s")
	os.Setenv("TELEMETRY_SINK", "redis")
	os.Setenv("REDIS_ADDR", "test-redis:6380")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	// 验证环境变量覆盖
	assert.Equal(t, "node-42", cfg.Node.ClientID)
	assert.True(t, cfg.Node.LocationPush)
	assert.Equal(t, 0.6, cfg.Detection.FallThreshold)
	assert.Equal(t, 250*time.Millisecond, cfg.Detection.FallDuration)
	assert.Equal(t, 10*time.Second, cfg.Timing.NotHereTimeout)
	assert.Equal(t, "redis", cfg.Telemetry.Sink)
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	// 清理环境变量
	os.Clearenv()
}

func TestLoadBeacons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beacons.yaml")
	content := `beacons:
  - address: "DE:AD:BE:EF:00:01"
    department: "ICU"
  - address: "DE:AD:BE:EF:00:02"
    department: "Ward B"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	beacons, err := LoadBeacons(path)
	require.NoError(t, err)
	require.Len(t, beacons, 2)
	assert.Equal(t, "DE:AD:BE:EF:00:01", beacons[0].Address)
	assert.Equal(t, "ICU", beacons[0].Department)
	assert.Equal(t, "Ward B", beacons[1].Department)
}

func TestLoadBeacons_Errors(t *testing.T) {
	// 文件不存在
	_, err := LoadBeacons(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	// 空映射
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beacons: []\n"), 0o644))
	_, err = LoadBeacons(path)
	assert.Error(t, err)
}

func TestLoad_BeaconFile(t *testing.T) {
	os.Clearenv()

	path := filepath.Join(t.TempDir(), "beacons.yaml")
	content := `beacons:
  - address: "DE:AD:BE:EF:00:01"
    department: "ICU"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	os.Setenv("NODE_BEACON_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Beacons, 1)
	assert.Equal(t, "ICU", cfg.Beacons[0].Department)

	os.Clearenv()
}

func TestGetEnv(t *testing.T) {
	// 测试默认值
	os.Clearenv()
	assert.Equal(t, "default-value", getEnv("TEST_KEY", "default-value"))

	// 测试环境变量存在
	os.Setenv("TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getEnv("TEST_KEY", "default-value"))
	os.Unsetenv("TEST_KEY")

	// 数值与时长解析失败时回退默认值
	os.Setenv("TEST_FLOAT", "not-a-number")
	assert.Equal(t, 1.5, getEnvFloat("TEST_FLOAT", 1.5))
	os.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION", time.Second))
	os.Setenv("TEST_BOOL", "maybe")
	assert.True(t, getEnvBool("TEST_BOOL", true))
	os.Clearenv()
}

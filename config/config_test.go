package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultMonitorConfig 测试默认配置通过校验
func TestDefaultMonitorConfig(t *testing.T) {
	cfg := DefaultMonitorConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.AllowsCellular)
	assert.True(t, cfg.Probe.Require)
	assert.Equal(t, DefaultProbeURL, cfg.Probe.URL)
	assert.Equal(t, "strict204", cfg.Probe.Policy)
	assert.Equal(t, 2, cfg.Probe.Retries)
}

// TestMonitorConfig_Validate 测试配置校验
func TestMonitorConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MonitorConfig)
		ok     bool
	}{
		{
			name:   "默认配置",
			mutate: func(*MonitorConfig) {},
			ok:     true,
		},
		{
			name:   "负重试次数",
			mutate: func(c *MonitorConfig) { c.Probe.Retries = -1 },
			ok:     false,
		},
		{
			name:   "负退避",
			mutate: func(c *MonitorConfig) { c.Probe.Backoff = Duration(-time.Second) },
			ok:     false,
		},
		{
			name:   "探测开启但超时为零",
			mutate: func(c *MonitorConfig) { c.Probe.Timeout = 0 },
			ok:     false,
		},
		{
			name: "探测关闭时超时为零可接受",
			mutate: func(c *MonitorConfig) {
				c.Probe.Require = false
				c.Probe.Timeout = 0
			},
			ok: true,
		},
		{
			name:   "未知策略",
			mutate: func(c *MonitorConfig) { c.Probe.Policy = "paranoid" },
			ok:     false,
		},
		{
			name:   "宽松策略合法",
			mutate: func(c *MonitorConfig) { c.Probe.Policy = "lenient" },
			ok:     true,
		},
		{
			name:   "负防抖",
			mutate: func(c *MonitorConfig) { c.Notify.DebounceInterval = Duration(-time.Millisecond) },
			ok:     false,
		},
		{
			name:   "负冷却",
			mutate: func(c *MonitorConfig) { c.Notify.Cooldown = Duration(-time.Second) },
			ok:     false,
		},
		{
			name: "零防抖零冷却合法",
			mutate: func(c *MonitorConfig) {
				c.Notify.DebounceInterval = 0
				c.Notify.Cooldown = 0
			},
			ok: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMonitorConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// TestWatcherConfig_Validate 测试轮询配置只修正不报错
func TestWatcherConfig_Validate(t *testing.T) {
	cfg := WatcherConfig{PollInterval: Duration(-time.Second), EventBufferSize: 0}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Second, cfg.PollInterval.Duration())
	assert.Equal(t, 16, cfg.EventBufferSize)
}

// TestDuration_JSON 测试 Duration 的 JSON 解析
func TestDuration_JSON(t *testing.T) {
	// 字符串格式
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration())

	// 纳秒数字格式
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration())

	// 非法字符串
	assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))

	// 序列化为字符串
	out, err := json.Marshal(Duration(300 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, `"300ms"`, string(out))
}

// TestProbeConfig_JSON 测试探测配置的 JSON 往返
func TestProbeConfig_JSON(t *testing.T) {
	raw := `{
		"require": true,
		"url": "http://example.com/generate_204",
		"timeout": "3s",
		"retries": 1,
		"backoff": "500ms",
		"policy": "lenient"
	}`

	var cfg ProbeConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3*time.Second, cfg.Timeout.Duration())
	assert.Equal(t, 500*time.Millisecond, cfg.Backoff.Duration())
	assert.Equal(t, "lenient", cfg.Policy)
}

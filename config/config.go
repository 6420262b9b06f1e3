package config

import (
	"fmt"
	"net/url"
	"time"
)

// ============================================================================
//                              监控配置
// ============================================================================

// MonitorConfig 可达性监控配置
//
// 配置字段在每个事件处理周期内被读取，但只应在监控器停止
// 期间修改：运行中并发修改配置属于未定义行为。
type MonitorConfig struct {
	// AllowsCellular 是否允许把蜂窝网络视为可达
	// 默认值: true
	AllowsCellular bool `json:"allows_cellular"`

	// Probe 互联网探测配置
	Probe ProbeConfig `json:"probe"`

	// Notify 通知调度配置
	Notify NotifyConfig `json:"notify"`
}

// ProbeConfig 互联网连通性探测配置
//
// 探测用于确认路径真正到达公网，识别强制门户等
// 链路层"已连接"但实际不通的场景。
type ProbeConfig struct {
	// Require 分类为可达后是否还需探测确认
	// 默认值: true
	Require bool `json:"require"`

	// URL 探测端点
	// 默认值: http://connectivitycheck.gstatic.com/generate_204
	URL string `json:"url"`

	// Timeout 单次探测超时
	// 默认值: 5s
	Timeout Duration `json:"timeout"`

	// Retries 失败后的重试次数
	// 默认值: 2
	Retries int `json:"retries"`

	// Backoff 两次尝试之间的退避等待
	// 默认值: 1s
	Backoff Duration `json:"backoff"`

	// Policy 响应验收策略 ("strict204" 或 "lenient")
	// 默认值: strict204
	Policy string `json:"policy"`

	// AcceptEmptyBody 宽松策略下是否接受空响应体
	// 默认值: false
	AcceptEmptyBody bool `json:"accept_empty_body"`
}

// NotifyConfig 通知调度配置
type NotifyConfig struct {
	// DebounceInterval 通知防抖间隔
	// 窗口内后到的状态覆盖先到的，0 表示同步立即通知
	// 默认值: 300ms
	DebounceInterval Duration `json:"debounce_interval"`

	// Cooldown 相同状态的最小通知间隔
	// 冷却期内重复的同状态通知被完全抑制
	// 默认值: 3s
	Cooldown Duration `json:"cooldown"`
}

// WatcherConfig 路径轮询监视配置
type WatcherConfig struct {
	// PollInterval 接口轮询间隔
	// 默认值: 2s
	PollInterval Duration `json:"poll_interval"`

	// EventBufferSize 事件缓冲区大小
	// 默认值: 16
	EventBufferSize int `json:"event_buffer_size"`
}

// ============================================================================
//                              默认值
// ============================================================================

// DefaultProbeURL 默认探测端点（返回 204 的连通性检查地址）
const DefaultProbeURL = "http://connectivitycheck.gstatic.com/generate_204"

// DefaultMonitorConfig 返回默认的监控配置
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		AllowsCellular: true,
		Probe: ProbeConfig{
			Require: true,
			URL:     DefaultProbeURL,
			Timeout: Duration(5 * time.Second),
			Retries: 2,
			Backoff: Duration(1 * time.Second),
			Policy:  "strict204",
		},
		Notify: NotifyConfig{
			DebounceInterval: Duration(300 * time.Millisecond),
			Cooldown:         Duration(3 * time.Second),
		},
	}
}

// DefaultWatcherConfig 返回默认的轮询监视配置
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval:    Duration(2 * time.Second),
		EventBufferSize: 16,
	}
}

// ============================================================================
//                              校验
// ============================================================================

// Validate 验证监控配置的有效性
func (c *MonitorConfig) Validate() error {
	if err := c.Probe.Validate(); err != nil {
		return err
	}
	return c.Notify.Validate()
}

// Validate 验证探测配置的有效性
func (c *ProbeConfig) Validate() error {
	if c.Retries < 0 {
		return fmt.Errorf("probe: retries must be >= 0")
	}
	if c.Backoff < 0 {
		return fmt.Errorf("probe: backoff must be >= 0")
	}
	if c.Require && c.URL != "" {
		if _, err := url.Parse(c.URL); err != nil {
			return fmt.Errorf("probe: invalid url %q: %w", c.URL, err)
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("probe: timeout must be > 0 when probing is required")
		}
	}
	switch c.Policy {
	case "", "strict204", "lenient":
	default:
		return fmt.Errorf("probe: unknown policy %q", c.Policy)
	}
	return nil
}

// Validate 验证通知配置的有效性
func (c *NotifyConfig) Validate() error {
	if c.DebounceInterval < 0 {
		return fmt.Errorf("notify: debounce_interval must be >= 0")
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("notify: cooldown must be >= 0")
	}
	return nil
}

// Validate 验证轮询监视配置的有效性
//
// 只修正无效值，永远返回 nil。
func (c *WatcherConfig) Validate() error {
	if c.PollInterval <= 0 {
		c.PollInterval = Duration(2 * time.Second)
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = 16
	}
	return nil
}

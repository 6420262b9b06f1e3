package netwatch

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netwatch/config"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 监视器配置
	config config.MonitorConfig

	// 路径设施配置（使用内置轮询监视器时生效）
	watcher config.WatcherConfig

	// 依赖注入（nil 时使用内置实现）
	paths  pkgif.PathMonitor
	prober pkgif.InternetProber
	bus    pkgif.Bus
	clk    clock.Clock

	// 事件来源标识
	sender string
}

func defaultOptions() *options {
	return &options{
		config:  config.DefaultMonitorConfig(),
		watcher: config.DefaultWatcherConfig(),
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              分类选项
// ════════════════════════════════════════════════════════════════════════════

// WithCellular 设置是否将蜂窝网络视为可达
//
// 默认允许。禁用后仅存在蜂窝接口的路径被分类为不可达。
func WithCellular(allow bool) Option {
	return func(o *options) error {
		o.config.AllowsCellular = allow
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              探测选项
// ════════════════════════════════════════════════════════════════════════════

// WithProbeRequired 设置链路可用后是否还需探测确认互联网可达
//
// 默认开启。关闭后直接采信链路层分类。
func WithProbeRequired(require bool) Option {
	return func(o *options) error {
		o.config.Probe.Require = require
		return nil
	}
}

// WithProbeURL 设置探测地址
//
// 默认使用 config.DefaultProbeURL。设置为空字符串且探测开启时，
// 探测立即判定失败。
func WithProbeURL(url string) Option {
	return func(o *options) error {
		o.config.Probe.URL = url
		return nil
	}
}

// WithProbeTimeout 设置单次探测超时
func WithProbeTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: probe timeout must be positive", ErrInvalidConfig)
		}
		o.config.Probe.Timeout = config.Duration(timeout)
		return nil
	}
}

// WithProbeRetries 设置探测失败后的重试次数
func WithProbeRetries(retries int) Option {
	return func(o *options) error {
		if retries < 0 {
			return fmt.Errorf("%w: probe retries must be non-negative", ErrInvalidConfig)
		}
		o.config.Probe.Retries = retries
		return nil
	}
}

// WithProbeBackoff 设置重试间隔
func WithProbeBackoff(backoff time.Duration) Option {
	return func(o *options) error {
		if backoff < 0 {
			return fmt.Errorf("%w: probe backoff must be non-negative", ErrInvalidConfig)
		}
		o.config.Probe.Backoff = config.Duration(backoff)
		return nil
	}
}

// WithProbePolicy 设置响应接受策略
//
// 参数:
//   - policy: types.PolicyStrict204 仅接受 204；types.PolicyLenient
//     额外接受同主机、非 HTML、响应体非空的 200-203
func WithProbePolicy(policy types.ProbePolicy) Option {
	return func(o *options) error {
		switch policy {
		case types.PolicyStrict204:
			o.config.Probe.Policy = "strict204"
		case types.PolicyLenient:
			o.config.Probe.Policy = "lenient"
		default:
			return fmt.Errorf("%w: unknown probe policy %d", ErrInvalidConfig, policy)
		}
		return nil
	}
}

// WithAcceptEmptyBody 宽松策略下接受空响应体
func WithAcceptEmptyBody(accept bool) Option {
	return func(o *options) error {
		o.config.Probe.AcceptEmptyBody = accept
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              通知选项
// ════════════════════════════════════════════════════════════════════════════

// WithDebounce 设置通知防抖窗口
//
// 窗口内连续的状态变化只通知最后一次。零值表示立即通知。
func WithDebounce(interval time.Duration) Option {
	return func(o *options) error {
		if interval < 0 {
			return fmt.Errorf("%w: debounce interval must be non-negative", ErrInvalidConfig)
		}
		o.config.Notify.DebounceInterval = config.Duration(interval)
		return nil
	}
}

// WithCooldown 设置同状态通知的冷却期
//
// 冷却期内重复的同状态通知被抑制。零值表示不抑制。
func WithCooldown(cooldown time.Duration) Option {
	return func(o *options) error {
		if cooldown < 0 {
			return fmt.Errorf("%w: cooldown must be non-negative", ErrInvalidConfig)
		}
		o.config.Notify.Cooldown = config.Duration(cooldown)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              设施选项
// ════════════════════════════════════════════════════════════════════════════

// WithPollInterval 设置内置路径监视器的轮询间隔
func WithPollInterval(interval time.Duration) Option {
	return func(o *options) error {
		if interval <= 0 {
			return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
		}
		o.watcher.PollInterval = config.Duration(interval)
		return nil
	}
}

// WithPathMonitor 注入自定义路径监视器
//
// 注入后内置轮询监视器不再创建，其生命周期由调用方管理。
func WithPathMonitor(paths pkgif.PathMonitor) Option {
	return func(o *options) error {
		o.paths = paths
		return nil
	}
}

// WithProber 注入自定义互联网探测器
func WithProber(prober pkgif.InternetProber) Option {
	return func(o *options) error {
		o.prober = prober
		return nil
	}
}

// WithBus 注入事件总线
//
// 状态变更将以 types.StateChangedEvent 发布到
// types.TopicStateChanged 主题。
func WithBus(bus pkgif.Bus) Option {
	return func(o *options) error {
		o.bus = bus
		return nil
	}
}

// WithClock 注入时钟
//
// 测试中传入 clock.NewMock 以精确控制防抖、冷却与重试计时。
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clk = clk
		return nil
	}
}

// WithSender 设置状态事件的来源标识
//
// 默认使用随机生成的标识。
func WithSender(sender string) Option {
	return func(o *options) error {
		o.sender = sender
		return nil
	}
}

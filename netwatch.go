package netwatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netwatch/internal/core/eventbus"
	"github.com/dep2p/go-netwatch/internal/core/monitor"
	"github.com/dep2p/go-netwatch/internal/core/pathwatch"
	"github.com/dep2p/go-netwatch/internal/core/prober"
	"github.com/dep2p/go-netwatch/internal/util/logger"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

var log = logger.Logger("netwatch")

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// ════════════════════════════════════════════════════════════════════════════
//                              Watcher 门面
// ════════════════════════════════════════════════════════════════════════════

// Watcher 设备网络可达性监视器的用户入口
//
// 组装路径设施、互联网探测器、事件总线与核心监视器。
// 所有配置选项仅在停止状态下生效；Start 之后修改配置
// 需先 Stop。
type Watcher struct {
	mu sync.Mutex

	opts    *options
	monitor *monitor.Monitor
	bus     pkgif.Bus

	// ownPaths 非 nil 时路径设施由 Watcher 托管生命周期
	ownPaths *pathwatch.PollingWatcher

	started bool
}

// New 创建监视器
//
// 参数:
//   - opts: 配置选项，全部可选
//
// 返回值:
//   - *Watcher: 监视器实例，调用 Start 后开始工作
//   - error: 选项或配置不合法
func New(opts ...Option) (*Watcher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	clk := o.clk
	if clk == nil {
		clk = clock.New()
	}

	w := &Watcher{opts: o}

	paths := o.paths
	if paths == nil {
		w.ownPaths = pathwatch.NewPollingWatcher(o.watcher, clk)
		paths = w.ownPaths
	}

	p := o.prober
	if p == nil {
		p = prober.NewProber(clk)
	}

	w.bus = o.bus
	if w.bus == nil {
		w.bus = eventbus.NewBus()
	}

	monOpts := []monitor.Option{
		monitor.WithClock(clk),
		monitor.WithBus(w.bus),
	}
	if o.sender != "" {
		monOpts = append(monOpts, monitor.WithSender(o.sender))
	}
	w.monitor = monitor.New(o.config, paths, p, monOpts...)

	return w, nil
}

// NewWithHostname 创建监视器（主机名兼容构造器）
//
// 为迁移旧 API 保留。主机名参数被接受但不参与探测，
// 探测地址由 WithProbeURL 控制。
func NewWithHostname(hostname string, opts ...Option) (*Watcher, error) {
	if hostname != "" {
		log.Debug("主机名参数不参与探测", "hostname", hostname)
	}
	return New(opts...)
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动监视器
//
// 重复调用为空操作。订阅路径变更服务失败时返回包装
// ErrSubscribeFailed 的错误，监视器保持停止状态。
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil
	}

	if w.ownPaths != nil {
		if err := w.ownPaths.Start(context.Background()); err != nil {
			return fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
		}
	}

	if err := w.monitor.Start(); err != nil {
		if w.ownPaths != nil {
			_ = w.ownPaths.Close()
		}
		return fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	w.started = true
	return nil
}

// Stop 停止监视器
//
// 返回时保证不再有任何回调或事件发出。重复调用为空操作，
// 停止后可再次 Start。
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	w.monitor.Stop()
	if w.ownPaths != nil {
		_ = w.ownPaths.Close()
	}
	w.started = false
}

// SetOptions 在停止状态下调整配置
//
// 接受与 New 相同的配置选项；监视器运行中返回 ErrRunning。
// 依赖注入类选项（WithPathMonitor、WithProber、WithBus、WithClock）
// 只能在构造时指定。
func (w *Watcher) SetOptions(opts ...Option) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrRunning
	}

	next := *w.opts
	for _, opt := range opts {
		if err := opt(&next); err != nil {
			return err
		}
	}
	if next.paths != w.opts.paths || next.prober != w.opts.prober ||
		next.bus != w.opts.bus || next.clk != w.opts.clk {
		return fmt.Errorf("%w: dependency options are construction-only", ErrInvalidConfig)
	}
	if err := next.config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := w.monitor.SetConfig(next.config); err != nil {
		return err
	}
	if next.sender != w.opts.sender {
		if err := w.monitor.SetSender(next.sender); err != nil {
			return err
		}
	}
	if w.ownPaths != nil {
		if err := w.ownPaths.SetConfig(next.watcher); err != nil {
			return err
		}
	}

	*w.opts = next
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              查询与回调
// ════════════════════════════════════════════════════════════════════════════

// CurrentState 返回当前连接分类
//
// 未启动或尚无探测结论时基于当前路径快照同步分类。
func (w *Watcher) CurrentState() types.ConnectionState {
	return w.monitor.CurrentState()
}

// OnReachable 注册网络可达回调，需在 Start 前调用
//
// 回调参数为分类结果（LocalNetwork 或 Cellular）。
func (w *Watcher) OnReachable(fn func(types.ConnectionState)) {
	w.monitor.OnReachable(fn)
}

// OnUnreachable 注册网络不可达回调，需在 Start 前调用
func (w *Watcher) OnUnreachable(fn func()) {
	w.monitor.OnUnreachable(fn)
}

// Bus 返回事件总线
//
// 订阅 types.TopicStateChanged 可接收所有状态变更事件。
func (w *Watcher) Bus() pkgif.Bus {
	return w.bus
}

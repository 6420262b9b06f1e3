package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-netwatch/config"
	"github.com/dep2p/go-netwatch/internal/util/logger"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

var log = logger.Logger("core/monitor")

// ============================================================================
//                              错误定义
// ============================================================================

// ErrSubscribe 表示订阅路径监视器失败
var ErrSubscribe = errors.New("path subscription failed")

// ErrRunning 表示操作要求监视器处于停止状态
var ErrRunning = errors.New("monitor is running")

// ============================================================================
//                              运行环境
// ============================================================================

// runLoop 承载一次 Start/Stop 会话的串行执行环境
//
// 所有状态变更（分类、探测结果、调度）都以任务形式投递到 tasks
// 通道，由单个循环协程顺序执行，消除共享状态上的竞争。
type runLoop struct {
	tasks chan func()
	quit  chan struct{} // 关闭后循环退出，投递方解除阻塞
	done  chan struct{} // 循环协程退出后关闭

	notify     chan func()   // 通知任务，由独立协程消费，避免回调阻塞状态循环
	notifyDone chan struct{} // 通知协程退出后关闭

	sessionCtx context.Context // 会话级上下文，Stop 时取消以放弃在途探测
	cancel     context.CancelFunc

	sched *notifyScheduler

	probeInFlight bool // 在途探测标记，期间到达的路径事件被合并丢弃
}

func newRunLoop() *runLoop {
	ctx, cancel := context.WithCancel(context.Background())
	return &runLoop{
		tasks:      make(chan func(), 16),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		notify:     make(chan func(), 16),
		notifyDone: make(chan struct{}),
		sessionCtx: ctx,
		cancel:     cancel,
	}
}

// ============================================================================
//                          可达性监视器
// ============================================================================

// Monitor 设备网络可达性监视器
//
// 组合路径监视、互联网探测与通知调度，对外暴露三态连接分类。
// 实现 pkg/interfaces.ReachabilityMonitor。
type Monitor struct {
	cfg    config.MonitorConfig
	paths  pkgif.PathMonitor
	prober pkgif.InternetProber
	bus    pkgif.Bus
	clk    clock.Clock
	sender string // 事件来源标识

	mu      sync.Mutex // 保护生命周期字段
	running bool
	loop    *runLoop
	sub     pkgif.PathSubscription

	sessMu  sync.RWMutex
	session string

	stateMu    sync.RWMutex
	lastStatus *types.ConnectionState // 最近一次分类结果，nil 表示尚无

	cbMu          sync.Mutex
	onReachable   func(types.ConnectionState)
	onUnreachable func()
}

var _ pkgif.ReachabilityMonitor = (*Monitor)(nil)

// Option 监视器可选配置
type Option func(*Monitor)

// WithClock 注入时钟，测试中使用 clock.NewMock
func WithClock(clk clock.Clock) Option {
	return func(m *Monitor) { m.clk = clk }
}

// WithBus 注入事件总线，状态变更将发布到 types.TopicStateChanged
func WithBus(bus pkgif.Bus) Option {
	return func(m *Monitor) { m.bus = bus }
}

// WithSender 设置事件的来源标识
func WithSender(sender string) Option {
	return func(m *Monitor) { m.sender = sender }
}

// New 创建可达性监视器
//
// 参数:
//   - cfg: 监视器配置
//   - paths: 路径监视器，提供接口快照与变更订阅
//   - prober: 互联网可达性探测器
//   - opts: 可选配置
func New(cfg config.MonitorConfig, paths pkgif.PathMonitor, prober pkgif.InternetProber, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:     cfg,
		paths:   paths,
		prober:  prober,
		clk:     clock.New(),
		sender:  uuid.NewString(),
		session: newSession(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetConfig 更新监视器配置
//
// 仅允许在停止状态下调用，运行中返回 ErrRunning。
func (m *Monitor) SetConfig(cfg config.MonitorConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrRunning
	}

	// CurrentState 随时可能并发读取 cfg，写入需经 stateMu
	m.stateMu.Lock()
	m.cfg = cfg
	m.stateMu.Unlock()
	return nil
}

// SetSender 更新事件来源标识，仅允许在停止状态下调用
func (m *Monitor) SetSender(sender string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrRunning
	}
	m.sender = sender
	return nil
}

// OnReachable 注册可达回调，需在 Start 前调用
func (m *Monitor) OnReachable(fn func(types.ConnectionState)) {
	m.cbMu.Lock()
	m.onReachable = fn
	m.cbMu.Unlock()
}

// OnUnreachable 注册不可达回调，需在 Start 前调用
func (m *Monitor) OnUnreachable(fn func()) {
	m.cbMu.Lock()
	m.onUnreachable = fn
	m.cbMu.Unlock()
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动监视器
//
// 订阅路径变更并启动串行状态循环。重复调用为空操作。
// 订阅失败时返回包装 ErrSubscribe 的错误，监视器保持停止状态。
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		log.Debug("监视器已在运行，忽略重复启动")
		return nil
	}

	l := newRunLoop()
	l.sched = newNotifyScheduler(m, m.clk, m.cfg.Notify)
	sess := m.rotateSession()

	sub, err := m.paths.Subscribe(func(snapshot types.PathSnapshot) {
		m.dispatch(l, sess, func() {
			m.handlePathEvent(l, snapshot)
		})
	})
	if err != nil {
		l.cancel()
		return fmt.Errorf("%w: %v", ErrSubscribe, err)
	}

	m.loop = l
	m.sub = sub
	m.running = true

	go m.runTasks(l)
	go m.runNotify(l)

	log.Info("可达性监视器已启动",
		"session", sess,
		"probe_required", m.cfg.Probe.Require,
		"allows_cellular", m.cfg.AllowsCellular)
	return nil
}

// Stop 停止监视器
//
// 返回时保证：会话令牌已轮换、在途探测的结果被丢弃、
// 防抖定时器已取消、不再有任何回调或事件发出。重复调用为空操作。
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	l := m.loop

	// 先取消订阅并轮换令牌，使所有旧会话的异步回调失效
	m.sub.Cancel()
	m.rotateSession()

	// 取消会话上下文，放弃在途探测的重试等待
	l.cancel()

	// 关停串行循环并等待退出，此后不再有任务执行
	close(l.quit)
	<-l.done
	<-l.notifyDone

	// 循环已退出，可安全触碰其私有状态
	l.sched.cancel()

	m.stateMu.Lock()
	m.lastStatus = nil
	m.stateMu.Unlock()

	m.loop = nil
	m.sub = nil
	m.running = false

	log.Info("可达性监视器已停止")
}

// CurrentState 返回当前连接分类
//
// 优先返回最近一次经过探测确认的分类；监视器尚无结论时，
// 基于当前路径快照做一次同步分类（不触发探测）。
func (m *Monitor) CurrentState() types.ConnectionState {
	m.stateMu.RLock()
	last := m.lastStatus
	allowsCellular := m.cfg.AllowsCellular
	m.stateMu.RUnlock()

	if last != nil {
		return *last
	}

	snapshot := m.paths.CurrentSnapshot()
	return Classify(snapshot, allowsCellular)
}

// ============================================================================
//                            串行执行环境
// ============================================================================

// runTasks 串行任务循环
func (m *Monitor) runTasks(l *runLoop) {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// runNotify 通知分发循环
//
// 回调与总线发布在独立协程执行，慢回调不会阻塞状态处理。
func (m *Monitor) runNotify(l *runLoop) {
	defer close(l.notifyDone)
	for {
		select {
		case <-l.quit:
			return
		case fn := <-l.notify:
			fn()
		}
	}
}

// dispatch 将任务投递到串行循环
//
// 会话令牌不匹配或循环已关停时任务被静默丢弃，
// 这是过期异步回调（旧探测结果、旧定时器）的统一淘汰点。
func (m *Monitor) dispatch(l *runLoop, sess string, fn func()) {
	task := func() {
		if !m.isCurrent(sess) {
			log.Debug("丢弃过期会话的任务", "session", sess)
			return
		}
		fn()
	}
	select {
	case l.tasks <- task:
	case <-l.quit:
	}
}

// ============================================================================
//                              状态处理
// ============================================================================

// handlePathEvent 处理一次路径快照，在串行循环中执行
func (m *Monitor) handlePathEvent(l *runLoop, snapshot types.PathSnapshot) {
	classified := Classify(snapshot, m.cfg.AllowsCellular)

	log.Debug("路径事件",
		"satisfied", snapshot.Satisfied,
		"interfaces", len(snapshot.Interfaces),
		"classified", classified.String())

	// 不可达结论无需探测确认
	if classified == types.StateUnavailable {
		m.settle(l, classified)
		return
	}

	// 未启用探测或端点未配置时直接采信链路层分类
	if !m.cfg.Probe.Require || m.cfg.Probe.URL == "" {
		m.settle(l, classified)
		return
	}

	// 在途探测期间到达的路径事件被合并：探测结束后路径监视器
	// 的下一次事件会重新触发评估
	if l.probeInFlight {
		log.Debug("探测进行中，合并路径事件")
		return
	}

	l.probeInFlight = true
	sess := m.currentSession()
	req := m.buildProbeRequest()

	go func() {
		ok := m.prober.Probe(l.sessionCtx, req)
		m.dispatch(l, sess, func() {
			l.probeInFlight = false
			final := classified
			if !ok {
				final = types.StateUnavailable
			}
			log.Debug("探测完成",
				"reachable", ok,
				"final", final.String())
			m.settle(l, final)
		})
	}()
}

// settle 记录分类结果并交给调度器评估通知
func (m *Monitor) settle(l *runLoop, status types.ConnectionState) {
	st := status
	m.stateMu.Lock()
	m.lastStatus = &st
	m.stateMu.Unlock()

	l.sched.consider(l, status)
}

// buildProbeRequest 由配置组装探测请求
func (m *Monitor) buildProbeRequest() pkgif.ProbeRequest {
	p := m.cfg.Probe
	policy := types.PolicyStrict204
	if p.Policy == "lenient" {
		policy = types.PolicyLenient
	}
	return pkgif.ProbeRequest{
		URL:             p.URL,
		Timeout:         p.Timeout.Duration(),
		Retries:         p.Retries,
		Backoff:         p.Backoff.Duration(),
		Policy:          policy,
		AcceptEmptyBody: p.AcceptEmptyBody,
	}
}

// ============================================================================
//                              通知派发
// ============================================================================

// enqueueNotify 将一次状态通知投递到通知协程
func (m *Monitor) enqueueNotify(l *runLoop, status types.ConnectionState) {
	job := func() {
		m.cbMu.Lock()
		reachable := m.onReachable
		unreachable := m.onUnreachable
		m.cbMu.Unlock()

		if status.IsReachable() {
			if reachable != nil {
				reachable(status)
			}
		} else {
			if unreachable != nil {
				unreachable()
			}
		}

		if m.bus != nil {
			m.bus.Post(types.TopicStateChanged, &types.StateChangedEvent{
				State:     status,
				Sender:    m.sender,
				Timestamp: time.Now(),
			})
		}
	}

	select {
	case l.notify <- job:
	case <-l.quit:
	}
}

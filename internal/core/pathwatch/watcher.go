// Package pathwatch 提供跨平台的网络路径监视实现
//
// 基于标准库 net.Interfaces() 的轮询实现：周期性扫描本机
// 接口，指纹变化时向订阅者交付新的路径快照。作为监控器
// 默认的路径设施，也可被平台原生实现或测试假实现替换。
package pathwatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netwatch/config"
	"github.com/dep2p/go-netwatch/internal/util/logger"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

var log = logger.Logger("core/pathwatch")

// ============================================================================
//                              PollingWatcher
// ============================================================================

// PollingWatcher 基于轮询的路径变化监视器
type PollingWatcher struct {
	mu sync.RWMutex

	// 配置
	config config.WatcherConfig

	// 时钟
	clk clock.Clock

	// 订阅者
	handlers  map[int]func(types.PathSnapshot)
	nextSubID int

	// 事件队列（交付在独立 goroutine 上进行）
	events chan types.PathSnapshot

	// 最近一次快照与指纹
	lastSnapshot    types.PathSnapshot
	lastFingerprint string
	scanned         bool

	// 运行状态
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// 确保实现接口
var _ pkgif.PathMonitor = (*PollingWatcher)(nil)

// NewPollingWatcher 创建轮询监视器
func NewPollingWatcher(cfg config.WatcherConfig, clk clock.Clock) *PollingWatcher {
	_ = cfg.Validate()
	if clk == nil {
		clk = clock.New()
	}

	return &PollingWatcher{
		config:   cfg,
		clk:      clk,
		handlers: make(map[int]func(types.PathSnapshot)),
		events:   make(chan types.PathSnapshot, cfg.EventBufferSize),
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动轮询
func (w *PollingWatcher) Start(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return nil // 已在运行
	}

	w.ctx, w.cancel = context.WithCancel(ctx)

	// 初始化指纹
	snapshot := scanPath()
	w.mu.Lock()
	w.lastSnapshot = snapshot
	w.lastFingerprint = fingerprint(snapshot)
	w.scanned = true
	w.mu.Unlock()

	w.wg.Add(2)
	go w.pollLoop()
	go w.dispatchLoop()

	log.Info("路径监视器已启动",
		"poll_interval", w.config.PollInterval,
		"satisfied", snapshot.Satisfied)

	return nil
}

// SetConfig 更新轮询配置，仅允许在停止状态下调用
func (w *PollingWatcher) SetConfig(cfg config.WatcherConfig) error {
	if w.running.Load() {
		return fmt.Errorf("pathwatch: watcher is running")
	}

	_ = cfg.Validate()
	w.mu.Lock()
	w.config = cfg
	if cap(w.events) != cfg.EventBufferSize {
		w.events = make(chan types.PathSnapshot, cfg.EventBufferSize)
	}
	w.mu.Unlock()
	return nil
}

// Close 停止轮询
func (w *PollingWatcher) Close() error {
	if !w.running.CompareAndSwap(true, false) {
		return nil // 未运行
	}

	w.cancel()
	w.wg.Wait()

	log.Info("路径监视器已停止")
	return nil
}

// ============================================================================
//                              PathMonitor 接口
// ============================================================================

// Subscribe 订阅路径变化事件
func (w *PollingWatcher) Subscribe(handler func(types.PathSnapshot)) (pkgif.PathSubscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("pathwatch: nil handler")
	}

	w.mu.Lock()
	id := w.nextSubID
	w.nextSubID++
	w.handlers[id] = handler
	w.mu.Unlock()

	return &subscription{watcher: w, id: id}, nil
}

// CurrentSnapshot 返回当前路径快照（同步、尽力而为）
func (w *PollingWatcher) CurrentSnapshot() types.PathSnapshot {
	w.mu.RLock()
	scanned := w.scanned
	snapshot := w.lastSnapshot
	w.mu.RUnlock()

	if scanned {
		return snapshot
	}
	// 尚未轮询过，做一次同步扫描
	return scanPath()
}

// subscription 订阅句柄
type subscription struct {
	watcher *PollingWatcher
	id      int
	once    sync.Once
}

// Cancel 取消订阅
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.watcher.mu.Lock()
		delete(s.watcher.handlers, s.id)
		s.watcher.mu.Unlock()
	})
}

// ============================================================================
//                              轮询逻辑
// ============================================================================

// pollLoop 轮询循环
func (w *PollingWatcher) pollLoop() {
	defer w.wg.Done()

	ticker := w.clk.Ticker(w.config.PollInterval.Duration())
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkPathChange()
		}
	}
}

// checkPathChange 检查路径变化，变化时入队新快照
func (w *PollingWatcher) checkPathChange() {
	snapshot := scanPath()
	fp := fingerprint(snapshot)

	w.mu.Lock()
	changed := fp != w.lastFingerprint
	w.lastSnapshot = snapshot
	w.lastFingerprint = fp
	w.scanned = true
	w.mu.Unlock()

	if !changed {
		return
	}

	log.Debug("检测到路径变化",
		"satisfied", snapshot.Satisfied,
		"interfaces", len(snapshot.Interfaces))

	select {
	case w.events <- snapshot:
	default:
		log.Warn("路径事件缓冲区已满，丢弃事件")
	}
}

// dispatchLoop 事件交付循环
//
// 在独立 goroutine 上调用订阅者 handler，避免 handler 阻塞
// 轮询节奏。
func (w *PollingWatcher) dispatchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case snapshot := <-w.events:
			w.mu.RLock()
			handlers := make([]func(types.PathSnapshot), 0, len(w.handlers))
			for _, h := range w.handlers {
				handlers = append(handlers, h)
			}
			w.mu.RUnlock()

			for _, handler := range handlers {
				handler(snapshot)
			}
		}
	}
}

// fingerprint 计算路径快照的指纹
func fingerprint(snapshot types.PathSnapshot) string {
	var b []byte
	if snapshot.Satisfied {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	for _, kind := range snapshot.Interfaces {
		b = append(b, byte(kind))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

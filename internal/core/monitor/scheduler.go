package monitor

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netwatch/config"
	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                           通知调度器
// ============================================================================

// notifyScheduler 负责通知的防抖与冷却
//
// 仅在监视器的串行执行环境中被调用，字段无需加锁：
//   - 防抖：状态在防抖窗口内连续变化时，只有最后一次生效
//   - 冷却：与上次已通知状态相同且间隔不足冷却期的通知被抑制
type notifyScheduler struct {
	m   *Monitor
	clk clock.Clock
	cfg config.NotifyConfig

	lastNotified *types.ConnectionState // 上次实际发出的状态，nil 表示尚未通知过
	lastNotifyAt time.Time

	pending *clock.Timer // 防抖窗口内待生效的通知定时器
}

func newNotifyScheduler(m *Monitor, clk clock.Clock, cfg config.NotifyConfig) *notifyScheduler {
	return &notifyScheduler{
		m:   m,
		clk: clk,
		cfg: cfg,
	}
}

// consider 评估一次状态通知请求
//
// 在串行执行环境中调用。冷却检查先于防抖：被冷却抑制的请求
// 不会重置已在计时的防抖窗口。
func (s *notifyScheduler) consider(l *runLoop, status types.ConnectionState) {
	if s.suppressed(status) {
		log.Debug("通知被冷却期抑制",
			"state", status.String(),
			"cooldown", s.cfg.Cooldown.String())
		return
	}

	debounce := s.cfg.DebounceInterval.Duration()
	if debounce <= 0 {
		s.fire(l, status)
		return
	}

	// 重置防抖窗口，仅最后一次请求生效
	if s.pending != nil {
		s.pending.Stop()
	}

	sess := s.m.currentSession()
	s.pending = s.clk.AfterFunc(debounce, func() {
		s.m.dispatch(l, sess, func() {
			s.pending = nil
			// 窗口到期后再次检查冷却：窗口期间可能已有同状态通知发出
			if s.suppressed(status) {
				return
			}
			s.fire(l, status)
		})
	})
}

// suppressed 判断通知是否应被冷却期抑制
func (s *notifyScheduler) suppressed(status types.ConnectionState) bool {
	if s.lastNotified == nil || *s.lastNotified != status {
		return false
	}
	cooldown := s.cfg.Cooldown.Duration()
	if cooldown <= 0 {
		return false
	}
	return s.clk.Since(s.lastNotifyAt) < cooldown
}

// fire 记录并发出一次通知
func (s *notifyScheduler) fire(l *runLoop, status types.ConnectionState) {
	st := status
	s.lastNotified = &st
	s.lastNotifyAt = s.clk.Now()
	s.m.enqueueNotify(l, status)
}

// cancel 取消待生效的防抖定时器
//
// 仅在串行循环退出后由 Stop 调用。
func (s *notifyScheduler) cancel() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

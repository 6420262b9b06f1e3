package monitor

import (
	"github.com/google/uuid"
)

// ============================================================================
//                              会话守卫
// ============================================================================

// newSession 生成新的会话令牌
//
// 每次 Start 铸造新令牌，Stop 时再铸造一次使旧令牌立即失效。
// 所有异步回调（路径事件、探测结果、防抖定时器）携带发起时的令牌，
// 执行前与当前令牌比对，不一致则静默丢弃。
func newSession() string {
	return uuid.NewString()
}

// currentSession 返回当前会话令牌
func (m *Monitor) currentSession() string {
	m.sessMu.RLock()
	defer m.sessMu.RUnlock()
	return m.session
}

// rotateSession 铸造并安装新令牌，返回新值
func (m *Monitor) rotateSession() string {
	s := newSession()
	m.sessMu.Lock()
	m.session = s
	m.sessMu.Unlock()
	return s
}

// isCurrent 判断令牌是否仍为当前会话
func (m *Monitor) isCurrent(sess string) bool {
	return m.currentSession() == sess
}

package pathwatch

import (
	"sync"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              Fake 实现（用于测试）
// ============================================================================

// FakeMonitor 可控的路径设施假实现
//
// Emit 同步调用所有订阅者 handler，便于测试精确控制事件
// 交付时机。SetSubscribeErr 可模拟订阅失败。
type FakeMonitor struct {
	mu           sync.Mutex
	handlers     map[int]func(types.PathSnapshot)
	nextID       int
	current      types.PathSnapshot
	subscribeErr error
}

// 确保实现接口
var _ pkgif.PathMonitor = (*FakeMonitor)(nil)

// NewFakeMonitor 创建路径设施假实现
func NewFakeMonitor() *FakeMonitor {
	return &FakeMonitor{
		handlers: make(map[int]func(types.PathSnapshot)),
	}
}

// SetSubscribeErr 设置 Subscribe 返回的错误
func (f *FakeMonitor) SetSubscribeErr(err error) {
	f.mu.Lock()
	f.subscribeErr = err
	f.mu.Unlock()
}

// SetCurrent 设置 CurrentSnapshot 返回的快照
func (f *FakeMonitor) SetCurrent(snapshot types.PathSnapshot) {
	f.mu.Lock()
	f.current = snapshot
	f.mu.Unlock()
}

// Emit 同步向所有订阅者交付快照
func (f *FakeMonitor) Emit(snapshot types.PathSnapshot) {
	f.mu.Lock()
	f.current = snapshot
	handlers := make([]func(types.PathSnapshot), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, handler := range handlers {
		handler(snapshot)
	}
}

// SubscriberCount 返回当前订阅者数量
func (f *FakeMonitor) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// Subscribe 实现 PathMonitor 接口
func (f *FakeMonitor) Subscribe(handler func(types.PathSnapshot)) (pkgif.PathSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}

	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return &fakeSubscription{monitor: f, id: id}, nil
}

// CurrentSnapshot 实现 PathMonitor 接口
func (f *FakeMonitor) CurrentSnapshot() types.PathSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// fakeSubscription 假订阅句柄
type fakeSubscription struct {
	monitor *FakeMonitor
	id      int
	once    sync.Once
}

// Cancel 取消订阅
func (s *fakeSubscription) Cancel() {
	s.once.Do(func() {
		s.monitor.mu.Lock()
		delete(s.monitor.handlers, s.id)
		s.monitor.mu.Unlock()
	})
}

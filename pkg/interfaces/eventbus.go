package interfaces

// ============================================================================
//                              广播总线
// ============================================================================

// Bus 定义进程内广播总线
//
// Bus 提供按主题名订阅/投递的事件广播。投递是尽力而为的：
// 订阅者缓冲区满时事件被丢弃，不阻塞投递方。
type Bus interface {
	// Subscribe 订阅指定主题
	Subscribe(topic string, opts ...SubscribeOpt) (Subscription, error)

	// Post 向主题投递事件（fire-and-forget）
	Post(topic string, event interface{})
}

// Subscription 定义主题订阅
type Subscription interface {
	// Out 返回接收事件的通道
	Out() <-chan interface{}

	// Close 取消订阅
	Close() error
}

// SubscribeOpt 订阅选项函数类型
type SubscribeOpt func(*SubscribeSettings)

// SubscribeSettings 订阅设置（导出以供实现使用）
type SubscribeSettings struct {
	Buffer int
}

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscribeOpt {
	return func(s *SubscribeSettings) {
		s.Buffer = size
	}
}

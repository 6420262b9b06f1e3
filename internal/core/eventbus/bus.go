// Package eventbus 实现进程内广播总线
package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-netwatch/internal/util/logger"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

var log = logger.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrEmptyTopic 主题名为空
	ErrEmptyTopic = errors.New("eventbus: empty topic")
)

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 按主题名组织的广播总线
//
// 投递是 fire-and-forget 的：订阅者缓冲区满时事件被丢弃，
// 投递方永不阻塞。每个主题保留最后一个事件，新订阅者在
// 订阅时收到一次重放。
type Bus struct {
	mu sync.RWMutex

	// topics 主题节点映射
	topics map[string]*topic
}

// topic 主题节点
type topic struct {
	lk        sync.Mutex
	name      string
	sinks     []*Subscription
	last      interface{}  // 最后一个事件（用于重放）
	dropCount atomic.Int64 // 丢弃事件计数（慢消费者警告）
}

// 确保实现 pkgif.Bus 接口
var _ pkgif.Bus = (*Bus)(nil)

// NewBus 创建新的广播总线
func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]*topic),
	}
}

// Subscribe 订阅指定主题
func (b *Bus) Subscribe(name string, opts ...pkgif.SubscribeOpt) (pkgif.Subscription, error) {
	if name == "" {
		return nil, ErrEmptyTopic
	}

	settings := &pkgif.SubscribeSettings{
		Buffer: 16, // 默认缓冲区大小
	}
	for _, opt := range opts {
		opt(settings)
	}

	sub := &Subscription{
		bus:   b,
		topic: name,
		out:   make(chan interface{}, settings.Buffer),
	}

	b.withTopic(name, func(t *topic) {
		t.sinks = append(t.sinks, sub)

		// 重放最后一个事件
		if t.last != nil {
			select {
			case sub.out <- t.last:
			default:
				// 缓冲区满，跳过
			}
		}
	})

	return sub, nil
}

// Post 向主题投递事件
func (b *Bus) Post(name string, event interface{}) {
	if name == "" || event == nil {
		return
	}

	b.withTopic(name, func(t *topic) {
		t.last = event

		for _, sub := range t.sinks {
			select {
			case sub.out <- event:
				// 成功发送
			default:
				// 缓冲区满，丢弃事件
				dropped := t.dropCount.Add(1)

				// 每丢弃 100 个事件警告一次，避免日志泛滥
				if dropped%100 == 1 {
					log.Warn("慢消费者检测",
						"topic", t.name,
						"dropped", dropped,
						"reason", "subscriber buffer full")
				}
			}
		}
	})
}

// ============================================================================
// 内部方法
// ============================================================================

// withTopic 在主题节点上执行操作
func (b *Bus) withTopic(name string, cb func(*topic)) {
	b.mu.Lock()

	t, ok := b.topics[name]
	if !ok {
		t = &topic{
			name:  name,
			sinks: make([]*Subscription, 0),
		}
		b.topics[name] = t
	}

	t.lk.Lock()
	b.mu.Unlock()

	cb(t)
	t.lk.Unlock()
}

// removeSub 移除订阅
func (b *Bus) removeSub(sub *Subscription) {
	b.mu.Lock()
	t, ok := b.topics[sub.topic]
	if !ok {
		b.mu.Unlock()
		return
	}

	t.lk.Lock()
	b.mu.Unlock()

	for i, s := range t.sinks {
		if s == sub {
			t.sinks = append(t.sinks[:i], t.sinks[i+1:]...)
			break
		}
	}
	t.lk.Unlock()
}

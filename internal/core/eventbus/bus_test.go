package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// TestBus_SubscribePost 测试基本的订阅与投递
func TestBus_SubscribePost(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe("test.topic")
	require.NoError(t, err)
	defer sub.Close()

	bus.Post("test.topic", "hello")

	select {
	case ev := <-sub.Out():
		assert.Equal(t, "hello", ev)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

// TestBus_EmptyTopic 测试空主题名
func TestBus_EmptyTopic(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe("")
	assert.ErrorIs(t, err, ErrEmptyTopic)

	// 空主题投递为空操作，不应 panic
	bus.Post("", "event")
}

// TestBus_MultipleSubscribers 测试多订阅者广播
func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	sub1, err := bus.Subscribe("broadcast")
	require.NoError(t, err)
	defer sub1.Close()

	sub2, err := bus.Subscribe("broadcast")
	require.NoError(t, err)
	defer sub2.Close()

	bus.Post("broadcast", 42)

	for _, sub := range []pkgif.Subscription{sub1, sub2} {
		select {
		case ev := <-sub.Out():
			assert.Equal(t, 42, ev)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive broadcast")
		}
	}
}

// TestBus_LastEventReplay 测试新订阅者收到最后一个事件的重放
func TestBus_LastEventReplay(t *testing.T) {
	bus := NewBus()

	bus.Post("stateful", "first")
	bus.Post("stateful", "second")

	sub, err := bus.Subscribe("stateful")
	require.NoError(t, err)
	defer sub.Close()

	select {
	case ev := <-sub.Out():
		assert.Equal(t, "second", ev, "replay should deliver the latest event")
	case <-time.After(time.Second):
		t.Fatal("no replay for late subscriber")
	}
}

// TestBus_SlowConsumerDrops 测试慢消费者丢弃而非阻塞
func TestBus_SlowConsumerDrops(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe("firehose", pkgif.BufSize(2))
	require.NoError(t, err)
	defer sub.Close()

	// 无人消费，投递必须不阻塞
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Post("firehose", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked on slow consumer")
	}

	// 缓冲区里只有最早的 2 个事件
	assert.Equal(t, 0, <-sub.Out())
	assert.Equal(t, 1, <-sub.Out())
}

// TestBus_CloseRemovesSubscriber 测试关闭订阅后不再接收事件
func TestBus_CloseRemovesSubscriber(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe("lifecycle")
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	// 重复关闭安全
	require.NoError(t, sub.Close())

	// 关闭后投递不应 panic
	bus.Post("lifecycle", "after-close")
}

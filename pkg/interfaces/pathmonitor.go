// Package interfaces 定义 go-netwatch 公共接口
//
// 本文件定义路径监视设施接口。监控器只依赖该契约，
// 具体实现可以是内置的轮询实现（internal/core/pathwatch），
// 也可以是测试注入的假实现。
package interfaces

import (
	"github.com/dep2p/go-netwatch/pkg/types"
)

// PathMonitor 定义操作系统路径变化监视设施
type PathMonitor interface {
	// Subscribe 订阅路径变化事件
	//
	// handler 在设施内部队列上被异步调用，每次路径变化交付一个
	// 不可变快照。订阅失败返回错误。
	Subscribe(handler func(types.PathSnapshot)) (PathSubscription, error)

	// CurrentSnapshot 返回当前路径快照（同步、尽力而为）
	CurrentSnapshot() types.PathSnapshot
}

// PathSubscription 路径变化订阅句柄
type PathSubscription interface {
	// Cancel 取消订阅，之后 handler 不再被调用
	Cancel()
}

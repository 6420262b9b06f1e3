package interfaces

import (
	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              可达性监控器
// ============================================================================

// ReachabilityMonitor 定义可达性监控器对外接口
type ReachabilityMonitor interface {
	// Start 启动监控（幂等：已运行时为空操作）
	//
	// 路径设施订阅失败时返回错误，监控器保持停止状态。
	Start() error

	// Stop 停止监控（幂等：已停止时为空操作）
	//
	// 返回后保证不再有任何回调或广播发出，未完成的探测
	// 结果到达后被静默丢弃。
	Stop()

	// CurrentState 返回当前连接状态（同步、尽力而为）
	//
	// 有缓存状态时返回缓存；否则对设施的当前快照做一次
	// 同步分类，结果可能相对探测确认值偏乐观。
	CurrentState() types.ConnectionState

	// OnReachable 注册可达回调（LocalNetwork/Cellular 时触发）
	OnReachable(func(types.ConnectionState))

	// OnUnreachable 注册不可达回调（Unavailable 时触发）
	OnUnreachable(func())
}

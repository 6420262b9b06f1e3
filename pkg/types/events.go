package types

import "time"

// ============================================================================
//                              广播事件
// ============================================================================

// TopicStateChanged 状态变更广播主题
//
// 每次通过防抖和冷却检查的状态转换都会向该主题投递一条
// StateChangedEvent。投递是尽力而为的，不提供送达保证。
const TopicStateChanged = "netwatch.state_changed"

// StateChangedEvent 连接状态变更事件
type StateChangedEvent struct {
	// State 新的连接状态
	State ConnectionState

	// Sender 发出事件的监控器实例标识
	Sender string

	// Timestamp 事件产生时间
	Timestamp time.Time
}

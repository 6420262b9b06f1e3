package types

// ============================================================================
//                              ConnectionState 连接状态
// ============================================================================

// ConnectionState 设备网络连接状态的三态分类
//
// 这是一个分类而非排序：三种状态之间不存在优先级关系。
// 出于旧版 API 兼容，Wi-Fi 和有线以太网统一归入 StateLocalNetwork。
type ConnectionState int

const (
	// StateUnavailable 网络不可用
	StateUnavailable ConnectionState = iota
	// StateLocalNetwork 通过本地网络可达（Wi-Fi 或以太网）
	StateLocalNetwork
	// StateCellular 通过蜂窝网络可达
	StateCellular
)

// String 返回连接状态的字符串表示
func (s ConnectionState) String() string {
	switch s {
	case StateUnavailable:
		return "unavailable"
	case StateLocalNetwork:
		return "local_network"
	case StateCellular:
		return "cellular"
	default:
		return "invalid"
	}
}

// IsReachable 是否可达（本地网络或蜂窝网络）
func (s ConnectionState) IsReachable() bool {
	return s == StateLocalNetwork || s == StateCellular
}

// ============================================================================
//                              ProbePolicy 探测验收策略
// ============================================================================

// ProbePolicy 互联网探测结果的验收策略
type ProbePolicy int

const (
	// PolicyStrict204 仅接受状态码恰好为 204 的响应
	PolicyStrict204 ProbePolicy = iota
	// PolicyLenient 宽松策略：204 始终接受；200-203 需通过
	// 同域重定向、非 HTML 内容类型和非空响应体检查
	PolicyLenient
)

// String 返回策略的字符串表示
func (p ProbePolicy) String() string {
	switch p {
	case PolicyStrict204:
		return "strict204"
	case PolicyLenient:
		return "lenient"
	default:
		return "invalid"
	}
}

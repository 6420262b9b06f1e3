// Package types 定义 go-netwatch 公共数据类型
package types

// ============================================================================
//                              InterfaceType 接口类型
// ============================================================================

// InterfaceType 网络接口类型
type InterfaceType int

const (
	// InterfaceOther 其他接口（回环、隧道、未识别类型等）
	InterfaceOther InterfaceType = iota
	// InterfaceWifi Wi-Fi 接口
	InterfaceWifi
	// InterfaceEthernet 有线以太网接口
	InterfaceEthernet
	// InterfaceCellular 蜂窝网络接口
	InterfaceCellular
)

// String 返回接口类型的字符串表示
func (t InterfaceType) String() string {
	switch t {
	case InterfaceWifi:
		return "wifi"
	case InterfaceEthernet:
		return "ethernet"
	case InterfaceCellular:
		return "cellular"
	default:
		return "other"
	}
}

// ============================================================================
//                              PathSnapshot 路径快照
// ============================================================================

// PathSnapshot 操作系统网络路径的一次性快照
//
// 由路径监视设施产出，交付后不可变。
// Satisfied 表示路径在链路层是否可用；Interfaces 为当前参与
// 该路径的接口类型集合（去重）。
type PathSnapshot struct {
	// Satisfied 路径是否满足（链路层可用）
	Satisfied bool

	// Interfaces 活跃接口类型集合
	Interfaces []InterfaceType
}

// HasInterface 快照是否包含指定类型的接口
func (s PathSnapshot) HasInterface(t InterfaceType) bool {
	for _, it := range s.Interfaces {
		if it == t {
			return true
		}
	}
	return false
}

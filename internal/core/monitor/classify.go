package monitor

import (
	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              路径分类
// ============================================================================

// Classify 将原始路径快照映射为三态连接分类
//
// 纯函数，无状态无 I/O：
//   - 路径不满足 → Unavailable
//   - 存在 Wi-Fi 或以太网接口 → LocalNetwork
//   - 允许蜂窝且存在蜂窝接口 → Cellular
//   - 其余情况（仅回环、仅未识别接口等）→ Unavailable
func Classify(snapshot types.PathSnapshot, allowsCellular bool) types.ConnectionState {
	if !snapshot.Satisfied {
		return types.StateUnavailable
	}

	if snapshot.HasInterface(types.InterfaceWifi) || snapshot.HasInterface(types.InterfaceEthernet) {
		return types.StateLocalNetwork
	}

	if allowsCellular && snapshot.HasInterface(types.InterfaceCellular) {
		return types.StateCellular
	}

	return types.StateUnavailable
}

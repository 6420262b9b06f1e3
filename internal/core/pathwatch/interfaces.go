package pathwatch

import (
	"net"
	"sort"
	"strings"

	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              接口扫描
// ============================================================================

// scanPath 扫描本机网络接口，构造当前路径快照
//
// Satisfied 的判定：存在至少一个启用的、非回环的、持有全局
// 单播地址的接口。接口类型由名称启发式判定，无法识别的类型
// 归入 InterfaceOther。
func scanPath() types.PathSnapshot {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Debug("获取网络接口失败", "err", err)
		return types.PathSnapshot{}
	}

	seen := make(map[types.InterfaceType]struct{})
	satisfied := false

	for _, iface := range ifaces {
		// 跳过回环接口和未启用的接口
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		if !hasUsableAddr(iface) {
			continue
		}

		satisfied = true
		seen[classifyInterface(iface.Name)] = struct{}{}
	}

	kinds := make([]types.InterfaceType, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return types.PathSnapshot{
		Satisfied:  satisfied,
		Interfaces: kinds,
	}
}

// hasUsableAddr 接口是否持有可用的全局单播地址
func hasUsableAddr(iface net.Interface) bool {
	addrs, err := iface.Addrs()
	if err != nil {
		log.Debug("获取接口地址失败", "iface", iface.Name, "err", err)
		return false
	}

	for _, addr := range addrs {
		ip := extractIP(addr)
		if ip == nil {
			continue
		}
		if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			continue
		}
		if ip.IsGlobalUnicast() {
			return true
		}
	}
	return false
}

// extractIP 从网络地址中提取 IP
func extractIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		return nil
	}
}

// classifyInterface 按接口名称启发式判定接口类型
//
// 覆盖 Linux/BSD/Windows 常见命名；无法识别时归入 Other。
func classifyInterface(name string) types.InterfaceType {
	lower := strings.ToLower(name)

	switch {
	case strings.HasPrefix(lower, "wlan"),
		strings.HasPrefix(lower, "wl"),
		strings.HasPrefix(lower, "wifi"),
		strings.HasPrefix(lower, "ath"),
		strings.Contains(lower, "wi-fi"),
		strings.Contains(lower, "wireless"):
		return types.InterfaceWifi

	case strings.HasPrefix(lower, "wwan"),
		strings.HasPrefix(lower, "rmnet"),
		strings.HasPrefix(lower, "pdp_ip"),
		strings.Contains(lower, "cellular"),
		strings.Contains(lower, "mobile"):
		return types.InterfaceCellular

	case strings.HasPrefix(lower, "eth"),
		strings.HasPrefix(lower, "en"),
		strings.HasPrefix(lower, "em"),
		strings.HasPrefix(lower, "lan"),
		strings.Contains(lower, "ethernet"):
		return types.InterfaceEthernet

	default:
		return types.InterfaceOther
	}
}

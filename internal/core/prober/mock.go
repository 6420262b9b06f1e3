package prober

import (
	"context"
	"sync/atomic"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
//                              Mock Prober (用于测试)
// ============================================================================

// MockProber 可控的模拟探测器（用于测试）
//
// 不访问网络，按预设结果序列依次应答，序列耗尽后重复
// 最后一个结果。
type MockProber struct {
	results    []bool
	index      atomic.Int32
	probeCount atomic.Int64
}

// 确保实现接口
var _ pkgif.InternetProber = (*MockProber)(nil)

// NewMockProber 创建模拟探测器，默认始终成功
func NewMockProber() *MockProber {
	return &MockProber{results: []bool{true}}
}

// SetResults 设置探测结果序列
func (p *MockProber) SetResults(results ...bool) {
	if len(results) == 0 {
		results = []bool{true}
	}
	p.results = results
	p.index.Store(0)
}

// Probe 返回预设序列中的下一个结果
func (p *MockProber) Probe(ctx context.Context, _ pkgif.ProbeRequest) bool {
	p.probeCount.Add(1)

	select {
	case <-ctx.Done():
		return false
	default:
	}

	i := int(p.index.Add(1)) - 1
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	return p.results[i]
}

// ProbeCount 返回累计探测次数
func (p *MockProber) ProbeCount() int64 {
	return p.probeCount.Load()
}

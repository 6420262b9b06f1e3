package eventbus

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Bus pkgif.Bus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideBus),
	)
}

// ProvideBus 提供广播总线实例
func ProvideBus() Result {
	return Result{
		Bus: NewBus(),
	}
}

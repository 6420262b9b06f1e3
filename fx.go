package netwatch

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-netwatch/internal/core/eventbus"
	"github.com/dep2p/go-netwatch/internal/core/monitor"
	"github.com/dep2p/go-netwatch/internal/core/pathwatch"
	"github.com/dep2p/go-netwatch/internal/core/prober"
)

// ════════════════════════════════════════════════════════════════════════════
//                              Fx 集成
// ════════════════════════════════════════════════════════════════════════════

// Module 返回完整的 fx 模块
//
// 供将监视器嵌入 fx 应用的场景使用：
//
//	app := fx.New(
//	    netwatch.Module(),
//	    fx.Invoke(func(m interfaces.ReachabilityMonitor) {
//	        m.OnReachable(func(state types.ConnectionState) { ... })
//	    }),
//	)
//
// 通过 fx.Supply(*config.MonitorConfig) 覆盖默认配置，
// 通过 fx.Supply(pkg/interfaces.PathMonitor) 替换路径设施。
func Module() fx.Option {
	return fx.Options(
		// 屏蔽 fx 自身的构建日志
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),

		eventbus.Module(),
		pathwatch.Module(),
		prober.Module(),
		monitor.Module(),
	)
}

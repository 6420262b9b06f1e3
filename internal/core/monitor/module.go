package monitor

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-netwatch/config"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
//                              模块定义
// ============================================================================

// ModuleInput 模块依赖
type ModuleInput struct {
	fx.In

	Config *config.MonitorConfig `optional:"true"`
	Paths  pkgif.PathMonitor
	Prober pkgif.InternetProber
	Bus    pkgif.Bus   `optional:"true"`
	Clock  clock.Clock `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Monitor pkgif.ReachabilityMonitor
}

// ProvideServices 创建可达性监视器
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := config.DefaultMonitorConfig()
	if input.Config != nil {
		cfg = *input.Config
	}
	if err := cfg.Validate(); err != nil {
		return ModuleOutput{}, err
	}

	opts := []Option{}
	if input.Bus != nil {
		opts = append(opts, WithBus(input.Bus))
	}
	if input.Clock != nil {
		opts = append(opts, WithClock(input.Clock))
	}

	m := New(cfg, input.Paths, input.Prober, opts...)

	return ModuleOutput{Monitor: m}, nil
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, monitor pkgif.ReachabilityMonitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return monitor.Start()
		},
		OnStop: func(ctx context.Context) error {
			monitor.Stop()
			return nil
		},
	})
}

// Module 返回可达性监视器的 fx 模块
func Module() fx.Option {
	return fx.Module("core/monitor",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

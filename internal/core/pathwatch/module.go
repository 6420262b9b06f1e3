package pathwatch

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-netwatch/config"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// Config 配置（可选）
	Config *config.WatcherConfig `optional:"true"`

	// Clock 时钟（可选，默认使用系统时钟）
	Clock clock.Clock `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// PathMonitor 路径监视设施
	PathMonitor pkgif.PathMonitor
}

// ProvideServices 提供模块服务
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := config.DefaultWatcherConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	return ModuleOutput{
		PathMonitor: NewPollingWatcher(cfg, input.Clock),
	}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("pathwatch",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC          fx.Lifecycle
	PathMonitor pkgif.PathMonitor
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	watcher, ok := input.PathMonitor.(*PollingWatcher)
	if !ok {
		return
	}

	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 使用 context.Background()：fx OnStart 的 ctx 在返回后
			// 即被取消，不能用于后台轮询循环
			return watcher.Start(context.Background())
		},
		OnStop: func(_ context.Context) error {
			return watcher.Close()
		},
	})
}

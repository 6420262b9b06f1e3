// Package main 提供命令行的网络可达性监视工具
//
// 启动监视器并持续打印连接状态变化，直到收到中断信号。
//
// 使用方法:
//
//	go run main.go -probe-url http://connectivitycheck.gstatic.com/generate_204
//	go run main.go -no-cellular -debounce 500ms
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dep2p/go-netwatch"
	"github.com/dep2p/go-netwatch/config"
	"github.com/dep2p/go-netwatch/pkg/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 解析命令行参数
	probeURL := flag.String("probe-url", config.DefaultProbeURL, "互联网探测地址")
	noProbe := flag.Bool("no-probe", false, "关闭互联网探测，直接采信链路层分类")
	noCellular := flag.Bool("no-cellular", false, "不将蜂窝网络视为可达")
	lenient := flag.Bool("lenient", false, "使用宽松的探测响应接受策略")
	debounce := flag.Duration("debounce", 300*time.Millisecond, "通知防抖窗口")
	cooldown := flag.Duration("cooldown", 3*time.Second, "同状态通知冷却期")
	pollInterval := flag.Duration("poll-interval", 2*time.Second, "路径轮询间隔")
	flag.Parse()

	opts := []netwatch.Option{
		netwatch.WithProbeURL(*probeURL),
		netwatch.WithProbeRequired(!*noProbe),
		netwatch.WithCellular(!*noCellular),
		netwatch.WithDebounce(*debounce),
		netwatch.WithCooldown(*cooldown),
		netwatch.WithPollInterval(*pollInterval),
	}
	if *lenient {
		opts = append(opts, netwatch.WithProbePolicy(types.PolicyLenient))
	}

	w, err := netwatch.New(opts...)
	if err != nil {
		return fmt.Errorf("创建监视器失败: %w", err)
	}

	w.OnReachable(func(state types.ConnectionState) {
		fmt.Printf("[%s] 网络可达: %s\n", timestamp(), state)
	})
	w.OnUnreachable(func() {
		fmt.Printf("[%s] 网络不可达\n", timestamp())
	})

	if err := w.Start(); err != nil {
		return fmt.Errorf("启动监视器失败: %w", err)
	}
	defer w.Stop()

	fmt.Printf("netwatch %s 已启动，当前状态: %s\n", netwatch.Version, w.CurrentState())
	fmt.Println("按 Ctrl+C 退出")

	// 等待中断信号
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalCh

	fmt.Printf("\n收到信号 %v，正在关闭...\n", sig)
	return nil
}

func timestamp() string {
	return time.Now().Format("15:04:05.000")
}

// Package netwatch 提供设备级网络可达性监视
//
// netwatch 将底层网络路径变化归并为三态连接分类，并在状态
// 变化时通知调用方：
//
//   - Unavailable: 无可用网络路径，或互联网探测失败
//   - LocalNetwork: 经 Wi-Fi / 以太网可达互联网
//   - Cellular: 经蜂窝网络可达互联网（可配置禁用）
//
// # 核心机制
//
//   - 路径监视: 订阅路径变化事件，基于接口类型做链路层分类
//   - 互联网探测: 链路可用后通过 HTTP 探测确认真实可达性，
//     可识别强制门户（captive portal）劫持
//   - 通知调度: 防抖合并抖动期间的连续变化，冷却期抑制重复
//     的同状态通知
//   - 会话守卫: Stop 使所有在途的异步工作立即失效，保证停止
//     后不再有任何回调
//
// # 快速开始
//
//	w, err := netwatch.New(
//	    netwatch.WithCellular(true),
//	    netwatch.WithDebounce(300*time.Millisecond),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	w.OnReachable(func(state types.ConnectionState) {
//	    fmt.Println("网络可达:", state)
//	})
//	w.OnUnreachable(func() {
//	    fmt.Println("网络不可达")
//	})
//
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// # 事件总线
//
// 除回调外，每次状态变更同时以 types.StateChangedEvent 发布到
// 总线主题 types.TopicStateChanged：
//
//	sub, _ := w.Bus().Subscribe(types.TopicStateChanged)
//	for ev := range sub.Out() {
//	    e := ev.(*types.StateChangedEvent)
//	    fmt.Println(e.State, e.Timestamp)
//	}
//
// # 并发模型
//
// 所有状态判定在单一串行执行环境中进行，回调在独立协程交付，
// 慢回调不会阻塞状态处理。配置选项仅在停止状态下生效。
package netwatch

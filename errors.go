package netwatch

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 监视器未启动
	ErrNotStarted = errors.New("watcher not started")

	// ErrRunning 操作要求监视器处于停止状态
	ErrRunning = errors.New("watcher is running")

	// ErrClosed 监视器已关闭
	ErrClosed = errors.New("watcher closed")

	// ErrSubscribeFailed 订阅路径变更服务失败
	//
	// Start 返回的错误会包装此哨兵，监视器保持停止状态。
	ErrSubscribeFailed = errors.New("path subscription failed")

	// ────────────────────────────────────────────────────────────────────────
	// 配置错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidConfig 配置不合法
	ErrInvalidConfig = errors.New("invalid config")
)

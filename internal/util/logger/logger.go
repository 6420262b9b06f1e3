// Package logger 提供 go-netwatch 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（NETWATCH_LOG_LEVEL, NETWATCH_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	var log = logger.Logger("core/monitor")
//
//	log.Info("状态变更", "previous", prev, "current", cur)
//
// 环境变量配置:
//
//	# 所有子系统 info，monitor 子系统 debug
//	NETWATCH_LOG_LEVEL=core/monitor=debug,info
//
//	# 使用 JSON 格式输出
//	NETWATCH_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 级别取自 NETWATCH_LOG_LEVEL 环境变量；同一子系统多次调用
// 返回相同的 Logger 实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := configFromEnv()
	handler := newHandler(subsystem, cfg.levelFor(subsystem), cfg.json)
	l := slog.New(handler)

	actual, loaded := loggers.LoadOrStore(subsystem, l)
	if !loaded {
		handlers.Store(subsystem, handler)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel 设置所有已创建子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// Discard 返回丢弃所有日志的 Logger（测试用）
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(99),
	}))
}

// ============================================================================
//                              环境变量配置
// ============================================================================

// envConfig 从环境变量解析出的日志配置
type envConfig struct {
	defaultLevel    slog.Level
	subsystemLevels map[string]slog.Level
	json            bool
}

// levelFor 返回指定子系统的日志级别
func (c *envConfig) levelFor(subsystem string) slog.Level {
	if level, ok := c.subsystemLevels[subsystem]; ok {
		return level
	}
	return c.defaultLevel
}

var (
	envCfg     *envConfig
	envCfgOnce sync.Once
)

// configFromEnv 解析环境变量（只解析一次）
//
// NETWATCH_LOG_LEVEL 格式: 子系统=级别,子系统=级别,默认级别
// 示例: core/prober=debug,core/pathwatch=warn,info
func configFromEnv() *envConfig {
	envCfgOnce.Do(func() {
		cfg := &envConfig{
			defaultLevel:    slog.LevelInfo,
			subsystemLevels: make(map[string]slog.Level),
			json:            strings.EqualFold(os.Getenv("NETWATCH_LOG_FORMAT"), "json"),
		}

		for _, part := range strings.Split(os.Getenv("NETWATCH_LOG_LEVEL"), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if name, lvl, ok := strings.Cut(part, "="); ok {
				cfg.subsystemLevels[strings.TrimSpace(name)] = parseLevel(lvl)
			} else {
				cfg.defaultLevel = parseLevel(part)
			}
		}
		envCfg = cfg
	})
	return envCfg
}

// parseLevel 解析级别字符串，未识别时返回 info
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	// 创建一个 buffer 来捕获日志输出
	buf := &bytes.Buffer{}

	// 设置输出到 buffer
	SetOutput(buf)

	// 创建一个 logger 并写入日志
	log := Logger("test")
	log.Info("test message", "key", "value")

	// 验证日志被写入 buffer
	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected log message in buffer, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value in buffer, got: %s", output)
	}
	if !strings.Contains(output, "subsystem=test") {
		t.Errorf("expected subsystem=test in buffer, got: %s", output)
	}
}

func TestSetOutput_ExistingLogger(t *testing.T) {
	// 创建一个 logger（输出到 stderr）
	log := Logger("test2")

	// 创建一个 buffer 并切换输出
	buf := &bytes.Buffer{}
	SetOutput(buf)

	// 使用已存在的 logger 写入日志
	log.Info("after switch", "key", "value")

	// 验证日志被写入 buffer（即使 logger 是在切换之前创建的）
	output := buf.String()
	if !strings.Contains(output, "after switch") {
		t.Errorf("expected log message in buffer, got: %s", output)
	}
}

func TestLogger_Cached(t *testing.T) {
	a := Logger("test3")
	b := Logger("test3")
	if a != b {
		t.Error("same subsystem should return the same logger instance")
	}
}

func TestSetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	log := Logger("test4")

	// 默认 info：debug 不输出
	log.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message should be filtered at info level")
	}

	// 调到 debug 后输出
	SetLevel("test4", slog.LevelDebug)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message should appear after SetLevel, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnvConfig_LevelFor(t *testing.T) {
	cfg := &envConfig{
		defaultLevel: slog.LevelWarn,
		subsystemLevels: map[string]slog.Level{
			"core/monitor": slog.LevelDebug,
		},
	}
	if got := cfg.levelFor("core/monitor"); got != slog.LevelDebug {
		t.Errorf("levelFor(core/monitor) = %v, want debug", got)
	}
	if got := cfg.levelFor("core/prober"); got != slog.LevelWarn {
		t.Errorf("levelFor(core/prober) = %v, want default warn", got)
	}
}

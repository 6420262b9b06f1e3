package monitor

import (
	"testing"

	"github.com/dep2p/go-netwatch/config"
	"github.com/dep2p/go-netwatch/internal/core/pathwatch"
	"github.com/dep2p/go-netwatch/internal/core/prober"
)

// TestSession_Unique 测试会话令牌的唯一性
func TestSession_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := newSession()
		if s == "" {
			t.Fatal("newSession returned empty token")
		}
		if seen[s] {
			t.Fatalf("duplicate session token: %s", s)
		}
		seen[s] = true
	}
}

// TestSession_RotateInvalidates 测试轮换后旧令牌失效
func TestSession_RotateInvalidates(t *testing.T) {
	m := New(config.DefaultMonitorConfig(), pathwatch.NewFakeMonitor(), prober.NewMockProber())

	old := m.currentSession()
	if !m.isCurrent(old) {
		t.Fatal("current session should be current")
	}

	fresh := m.rotateSession()
	if m.isCurrent(old) {
		t.Error("old session should be invalid after rotation")
	}
	if !m.isCurrent(fresh) {
		t.Error("fresh session should be current")
	}
	if old == fresh {
		t.Error("rotation should mint a distinct token")
	}
}

package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

func probeReq(url string, policy types.ProbePolicy) pkgif.ProbeRequest {
	return pkgif.ProbeRequest{
		URL:     url,
		Timeout: 2 * time.Second,
		Policy:  policy,
	}
}

// TestProber_EmptyURL 测试未配置端点时立即失败
func TestProber_EmptyURL(t *testing.T) {
	p := NewProber(nil)
	assert.False(t, p.Probe(context.Background(), probeReq("", types.PolicyStrict204)))
}

// TestProber_Strict204 测试严格策略
func TestProber_Strict204(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "204 无内容",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			want: true,
		},
		{
			name: "200 带响应体",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			want: false,
		},
		{
			name: "500 服务错误",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewProber(nil)
			got := p.Probe(context.Background(), probeReq(srv.URL, types.PolicyStrict204))
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestProber_Lenient 测试宽松策略
func TestProber_Lenient(t *testing.T) {
	tests := []struct {
		name            string
		handler         http.HandlerFunc
		acceptEmptyBody bool
		want            bool
	}{
		{
			name: "204 始终接受",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			want: true,
		},
		{
			name: "200 非 HTML 带响应体",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("ok"))
			},
			want: true,
		},
		{
			name: "200 HTML 登录页",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte("<html><body>login</body></html>"))
			},
			want: false,
		},
		{
			name: "200 空响应体默认拒绝",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusOK)
			},
			want: false,
		},
		{
			name: "200 空响应体显式接受",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusOK)
			},
			acceptEmptyBody: true,
			want:            true,
		},
		{
			name: "404 拒绝",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewProber(nil)
			req := probeReq(srv.URL, types.PolicyLenient)
			req.AcceptEmptyBody = tt.acceptEmptyBody
			assert.Equal(t, tt.want, p.Probe(context.Background(), req))
		})
	}
}

// TestProber_CaptivePortalRedirect 测试跨域重定向被识别为强制门户
func TestProber_CaptivePortalRedirect(t *testing.T) {
	// 门户服务器：返回看似正常的 200 响应
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("portal"))
	}))
	defer portal.Close()

	// 探测端点被劫持，重定向到门户
	hijacked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, portal.URL, http.StatusFound)
	}))
	defer hijacked.Close()

	p := NewProber(nil)

	// 宽松策略下最终 Host 与请求 Host 不一致，拒绝
	assert.False(t, p.Probe(context.Background(), probeReq(hijacked.URL, types.PolicyLenient)))

	// 严格策略同样拒绝（最终响应非 204）
	assert.False(t, p.Probe(context.Background(), probeReq(hijacked.URL, types.PolicyStrict204)))
}

// TestProber_SameHostRedirect 测试同主机重定向不视为门户
func TestProber_SameHostRedirect(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/real", http.StatusFound)
	})
	mux.HandleFunc("/real", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	p := NewProber(nil)
	assert.True(t, p.Probe(context.Background(), probeReq(srv.URL+"/check", types.PolicyLenient)))
}

// TestProber_RetryWithBackoff 测试重试次数与退避节奏
func TestProber_RetryWithBackoff(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProber(nil)
	req := probeReq(srv.URL, types.PolicyStrict204)
	req.Retries = 2
	req.Backoff = 30 * time.Millisecond

	start := time.Now()
	got := p.Probe(context.Background(), req)
	elapsed := time.Since(start)

	assert.False(t, got)
	assert.EqualValues(t, 3, hits.Load(), "retries=2 means 3 attempts")
	// 两次退避等待
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

// TestProber_RetrySucceedsEventually 测试重试后成功
func TestProber_RetrySucceedsEventually(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewProber(nil)
	req := probeReq(srv.URL, types.PolicyStrict204)
	req.Retries = 2
	req.Backoff = 20 * time.Millisecond

	start := time.Now()
	got := p.Probe(context.Background(), req)
	elapsed := time.Since(start)

	assert.True(t, got)
	assert.EqualValues(t, 3, hits.Load())
	// 第三次才成功：至少经历两次退避
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

// TestProber_ContextCancelAbandonsRetries 测试取消上下文放弃重试
func TestProber_ContextCancelAbandonsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())

	p := NewProber(nil)
	req := probeReq(srv.URL, types.PolicyStrict204)
	req.Retries = 10
	req.Backoff = time.Hour // 取消应打断退避等待

	done := make(chan bool, 1)
	go func() {
		done <- p.Probe(ctx, req)
	}()

	// 等首次尝试完成后取消
	require.Eventually(t, func() bool { return hits.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case got := <-done:
		assert.False(t, got)
		assert.EqualValues(t, 1, hits.Load(), "no further attempts after cancel")
	case <-time.After(time.Second):
		t.Fatal("Probe did not return after context cancel")
	}
}

// TestProber_Timeout 测试单次尝试超时
func TestProber_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewProber(nil)
	req := probeReq(srv.URL, types.PolicyStrict204)
	req.Timeout = 30 * time.Millisecond

	assert.False(t, p.Probe(context.Background(), req))
}

// TestMockProber_Sequence 测试模拟探测器的结果序列
func TestMockProber_Sequence(t *testing.T) {
	mock := NewMockProber()
	mock.SetResults(false, false, true)

	ctx := context.Background()
	var req pkgif.ProbeRequest

	assert.False(t, mock.Probe(ctx, req))
	assert.False(t, mock.Probe(ctx, req))
	assert.True(t, mock.Probe(ctx, req))
	// 序列耗尽后重复最后一个结果
	assert.True(t, mock.Probe(ctx, req))
	assert.EqualValues(t, 4, mock.ProbeCount())
}

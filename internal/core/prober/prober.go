// Package prober 提供互联网连通性探测的实现
//
// 探测通过 HTTP GET 请求连通性检查端点，验证网络路径真正到达
// 公网。宽松策略下会识别强制门户的特征（跨域重定向、HTML
// 登录页），避免链路层"已连接"带来的误报。
package prober

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netwatch/internal/util/logger"
	pkgif "github.com/dep2p/go-netwatch/pkg/interfaces"
	"github.com/dep2p/go-netwatch/pkg/types"
)

var log = logger.Logger("core/prober")

// ============================================================================
//                              HTTPProber
// ============================================================================

// HTTPProber 基于 HTTP 的互联网探测器
type HTTPProber struct {
	clk    clock.Clock
	client *http.Client
}

// 确保实现接口
var _ pkgif.InternetProber = (*HTTPProber)(nil)

// NewProber 创建 HTTP 探测器
func NewProber(clk clock.Clock) *HTTPProber {
	if clk == nil {
		clk = clock.New()
	}
	return &HTTPProber{
		clk: clk,
		// 跟随重定向（默认最多 10 次），强制门户检测依赖
		// 最终响应的 Host 与请求 Host 的比对
		client: &http.Client{},
	}
}

// NewProberWithClient 使用自定义 HTTP 客户端创建探测器（测试用）
func NewProberWithClient(clk clock.Clock, client *http.Client) *HTTPProber {
	p := NewProber(clk)
	if client != nil {
		p.client = client
	}
	return p
}

// Probe 执行一次探测（含全部重试），阻塞直至得出结论
//
// 返回 true 表示互联网可达。URL 为空立即返回 false 且不发起
// 网络请求。ctx 取消会放弃后续重试。
func (p *HTTPProber) Probe(ctx context.Context, req pkgif.ProbeRequest) bool {
	if req.URL == "" {
		log.Debug("探测端点未配置，直接判定失败")
		return false
	}

	attempts := req.Retries + 1
	for i := 0; i < attempts; i++ {
		if p.attempt(ctx, req) {
			log.Debug("探测成功", "url", req.URL, "attempt", i+1)
			return true
		}

		// 最后一次尝试失败，不再退避
		if i == attempts-1 {
			break
		}

		log.Debug("探测失败，等待重试",
			"url", req.URL,
			"attempt", i+1,
			"remaining", attempts-i-1,
			"backoff", req.Backoff)

		select {
		case <-p.clk.After(req.Backoff):
		case <-ctx.Done():
			// 会话已失效或监控器停止，放弃剩余重试
			return false
		}
	}

	log.Debug("探测重试耗尽", "url", req.URL, "attempts", attempts)
	return false
}

// ============================================================================
//                              单次尝试
// ============================================================================

// attempt 执行单次 HTTP 检查
func (p *HTTPProber) attempt(ctx context.Context, req pkgif.ProbeRequest) bool {
	reqCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		log.Debug("构造探测请求失败", "url", req.URL, "err", err)
		return false
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		log.Debug("探测请求失败", "url", req.URL, "err", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return p.evaluate(req, httpReq.URL, resp)
}

// evaluate 按验收策略评估响应
func (p *HTTPProber) evaluate(req pkgif.ProbeRequest, origin *url.URL, resp *http.Response) bool {
	// 204 在两种策略下都始终接受
	if resp.StatusCode == http.StatusNoContent {
		return true
	}

	if req.Policy == types.PolicyStrict204 {
		log.Debug("严格策略拒绝响应", "status", resp.StatusCode)
		return false
	}

	// 宽松策略：只考虑 200-203
	if resp.StatusCode < http.StatusOK || resp.StatusCode > http.StatusNonAuthoritativeInfo {
		log.Debug("宽松策略拒绝状态码", "status", resp.StatusCode)
		return false
	}

	// 跨域重定向是强制门户的典型特征
	if finalHost(resp) != origin.Host {
		log.Debug("检测到跨域重定向（疑似强制门户）",
			"requestHost", origin.Host,
			"finalHost", finalHost(resp))
		return false
	}

	// 门户登录页通常是 HTML
	if isHTML(resp.Header.Get("Content-Type")) {
		log.Debug("响应为 HTML 内容（疑似强制门户）",
			"contentType", resp.Header.Get("Content-Type"))
		return false
	}

	// 自建端点可能返回空体，需显式开启才接受
	if !req.AcceptEmptyBody && !bodyNonEmpty(resp.Body) {
		log.Debug("响应体为空，拒绝")
		return false
	}

	return true
}

// finalHost 返回跟随重定向后最终响应的 Host
func finalHost(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.Host
	}
	return ""
}

// isHTML 判断内容类型是否为 HTML
func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// bodyNonEmpty 判断响应体是否非空（最多读取 1 字节）
func bodyNonEmpty(body io.Reader) bool {
	var buf [1]byte
	n, _ := io.ReadFull(body, buf[:])
	return n > 0
}

package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-netwatch/pkg/types"
)

// ============================================================================
//                              互联网探测
// ============================================================================

// ProbeRequest 一次互联网连通性探测的全部参数
type ProbeRequest struct {
	// URL 探测端点；为空时探测立即失败且不发起任何网络请求
	URL string

	// Timeout 单次 HTTP 请求超时
	Timeout time.Duration

	// Retries 失败后的重试次数（0 表示只探测一次）
	Retries int

	// Backoff 两次尝试之间的退避等待
	Backoff time.Duration

	// Policy 响应验收策略
	Policy types.ProbePolicy

	// AcceptEmptyBody 宽松策略下是否接受空响应体
	// 自建探测端点可能返回 200 + 空体，此时需要显式开启
	AcceptEmptyBody bool
}

// InternetProber 定义互联网连通性探测器
//
// Probe 阻塞执行（含全部重试），因此调用方必须在独立的
// goroutine 中调用，不得占用状态上下文。ctx 取消会放弃
// 后续重试并返回 false；对过期会话结果的丢弃由调用方负责。
type InternetProber interface {
	Probe(ctx context.Context, req ProbeRequest) bool
}

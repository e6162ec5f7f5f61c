package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second

	// UserAgent 标识本工具；Google API 前端会把它记录在审计日志中。
	UserAgent = "gpcheck/1.0 (+https://github.com/John-Robertt/gpcheck)"
)

// Transport 把“UA + 超时 + keep-alive 策略”固化为统一策略。
//
// 约束：不做重试。每次 RoundTrip 恰好发出一个请求，失败原样返回给上层分类。
type Transport struct {
	Base http.RoundTripper

	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// Clone 避免在 RoundTripper 内部“污染”调用方的 request。
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		ua := strings.TrimSpace(t.UserAgent)
		if ua == "" {
			ua = UserAgent
		}
		r.Header.Set("User-Agent", ua)
	}
	return t.Base.RoundTrip(r)
}

// NewClient 构造访问 Google REST API 的 HTTP client。
//
// 规则：
// - timeout<=0 时使用 DefaultTimeout
// - 固定 UA
// - 不重试
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Transport: &Transport{Base: base, UserAgent: UserAgent},
		Timeout:   timeout,
	}
}

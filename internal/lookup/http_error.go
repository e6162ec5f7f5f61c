package lookup

import (
	"fmt"
	"strings"
)

// HTTPStatusError 表示 REST 接口返回了非 2xx 的 HTTP 状态码。
// Classify 依据 StatusCode 把 404/403 归为“不可用但不是意外”。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Message    string // 响应体中 error.message（可能为空）
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

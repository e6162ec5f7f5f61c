// Package rmrest 通过 Cloud Resource Manager v3 的 REST 接口实现 lookup.Backend。
//
// 用途：没有 gRPC 出口的网络环境，或指向本地模拟服务（Anonymous=true）。
package rmrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/John-Robertt/gpcheck/internal/infra/httpx"
	"github.com/John-Robertt/gpcheck/internal/lookup"
)

const (
	Name            = "rest"
	DefaultEndpoint = "https://cloudresourcemanager.googleapis.com"

	readOnlyScope = "https://www.googleapis.com/auth/cloud-platform.read-only"

	// 错误响应体只读前 64KiB，用于提取 error.message。
	maxErrorBody = 64 << 10
)

type Options struct {
	// Endpoint 为空时使用 DefaultEndpoint。
	Endpoint string
	// Anonymous=true 时不加载 ADC（仅用于模拟服务）。
	Anonymous bool
	Timeout   time.Duration
}

// Backend 的 client 在构造时创建一次，之后只读复用。
type Backend struct {
	endpoint string
	client   *http.Client
}

var _ lookup.Backend = (*Backend)(nil)

// New 构造 REST backend。非 Anonymous 模式必须能找到 ADC，否则返回错误（由 CLI 提示用户登录）。
func New(ctx context.Context, opts Options) (*Backend, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid REST endpoint %q", opts.Endpoint)
	}

	base := httpx.NewClient(opts.Timeout)
	if opts.Anonymous {
		return &Backend{endpoint: endpoint, client: base}, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, readOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("find application default credentials: %w", err)
	}
	// oauth2 的 token 请求与 API 请求共用同一套 transport 策略（UA/超时）。
	authed := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), creds.TokenSource)
	authed.Timeout = base.Timeout
	return &Backend{endpoint: endpoint, client: authed}, nil
}

func (*Backend) Name() string { return Name }

// GetProject 发起 GET /v3/projects/<id>。2xx 视为存在；非 2xx 返回 *lookup.HTTPStatusError。
func (b *Backend) GetProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("project id must not be empty")
	}
	u := b.endpoint + "/v3/projects/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &lookup.HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Message: errorMessage(body)}
}

func (b *Backend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// errorMessage 从 Google API 的错误信封中取 error.message；解析失败返回空串。
func errorMessage(body []byte) string {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error.Message
}

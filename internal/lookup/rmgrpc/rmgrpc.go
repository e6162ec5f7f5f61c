// Package rmgrpc 通过官方 Resource Manager v3 客户端（gRPC）实现 lookup.Backend。
package rmgrpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/John-Robertt/gpcheck/internal/infra/httpx"
	"github.com/John-Robertt/gpcheck/internal/lookup"
)

const Name = "grpc"

type Options struct {
	// Endpoint 形如 host:port；为空时使用客户端库默认值。
	Endpoint string
	// Anonymous=true 时不加载 ADC，并使用明文 gRPC（仅用于本地模拟服务）。
	Anonymous bool
	// Timeout 是单次 GetProject 的超时；<=0 表示不额外设置。
	Timeout time.Duration
}

type Backend struct {
	client  *resourcemanager.ProjectsClient
	timeout time.Duration
}

var _ lookup.Backend = (*Backend)(nil)

// New 初始化客户端；缺少 ADC 时在这里失败（由 CLI 提示用户登录）。
func New(ctx context.Context, opts Options) (*Backend, error) {
	copts := []option.ClientOption{option.WithUserAgent(httpx.UserAgent)}
	if ep := strings.TrimSpace(opts.Endpoint); ep != "" {
		copts = append(copts, option.WithEndpoint(ep))
	}
	if opts.Anonymous {
		copts = append(copts,
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	c, err := resourcemanager.NewProjectsClient(ctx, copts...)
	if err != nil {
		return nil, fmt.Errorf("create projects client: %w", err)
	}
	// 客户端库默认对 Unavailable 做重试；这里每次检查只允许一次远端调用。
	c.CallOptions.GetProject = nil

	return &Backend{client: c, timeout: opts.Timeout}, nil
}

func (*Backend) Name() string { return Name }

func (b *Backend) GetProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("project id must not be empty")
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	_, err := b.client.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{Name: lookup.ResourceName(id)})
	return err
}

func (b *Backend) Close() error { return b.client.Close() }

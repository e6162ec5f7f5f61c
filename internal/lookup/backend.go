package lookup

import "context"

// Backend 把“远端协议细节”限制在各自的子包内部；核心流程只依赖统一接口与 Classify 的分类结果。
//
// 约束：
// - GetProject 只做一次远端调用：不做缓存、不做重试、不做限速（限速由批量流程统一控制）
// - 返回 nil 表示项目存在且可见
// - 错误必须保留可分类的信息（gRPC status 或 *HTTPStatusError），允许用 %w 包装
type Backend interface {
	Name() string
	GetProject(ctx context.Context, id string) error
	Close() error
}

// ResourceName 返回 Resource Manager v3 的资源名（projects/<id>）。
func ResourceName(id string) string { return "projects/" + id }

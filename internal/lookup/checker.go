package lookup

import (
	"context"

	"go.uber.org/zap"

	"github.com/John-Robertt/gpcheck/internal/domain"
)

// Result 是一次存在性检查的结果。
//
// 已知缺口：Kind=unexpected（网络/限流/瞬时故障）时 Exists 也是 false，
// 调用方无法区分“可用”与“检查失败”。这里只记录 Kind 与 Err，不改变判定。
type Result struct {
	Exists bool
	Kind   domain.LookupKind
	Err    error
}

// Checker 包装一次远端查询，并把错误粗粒度地折叠为 bool。
type Checker struct {
	Backend Backend
	Logger  *zap.Logger
}

func NewChecker(b Backend, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{Backend: b, Logger: logger}
}

// Exists 对 id（已小写）做且只做一次远端查询。
func (c *Checker) Exists(ctx context.Context, id string) bool {
	return c.Check(ctx, id).Exists
}

// Check 与 Exists 相同，但保留分类信息。意外错误记录日志后按 false 处理，不中断批量流程。
func (c *Checker) Check(ctx context.Context, id string) Result {
	err := c.Backend.GetProject(ctx, id)
	kind := Classify(err)

	switch kind {
	case domain.LookupFound:
		return Result{Exists: true, Kind: kind}
	case domain.LookupNotFound, domain.LookupPermissionDenied:
		c.logger().Debug("project id not visible",
			zap.String("project_id", id),
			zap.String("kind", string(kind)),
		)
		return Result{Exists: false, Kind: kind, Err: err}
	default:
		c.logger().Warn("unexpected error checking project id",
			zap.String("project_id", id),
			zap.String("backend", c.Backend.Name()),
			zap.Error(err),
		)
		return Result{Exists: false, Kind: domain.LookupUnexpected, Err: err}
	}
}

func (c *Checker) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

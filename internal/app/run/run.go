package run

import (
	"context"
	"time"

	"github.com/John-Robertt/gpcheck/internal/domain"
	"github.com/John-Robertt/gpcheck/internal/lookup"
	"github.com/John-Robertt/gpcheck/internal/projectid"
)

// Checker 是 Execute 对存在性检查的最小依赖（*lookup.Checker 满足该接口）。
type Checker interface {
	Check(ctx context.Context, id string) lookup.Result
}

// SleepFunc 在两次远端查询之间等待 d。
type SleepFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	Wordlist string // 仅用于 report 追溯
	Backend  string // 仅用于 report 追溯

	// Delay 是每次远端查询之后的固定等待（包括最后一条）。
	Delay time.Duration
	// Sleep 为空时使用 Sleep。
	Sleep SleepFunc
}

// Execute 串行检查 names，并返回 RunReport。
//
// 规则：
// - 按文件顺序逐条处理，序号从 1 开始
// - invalid：不查询、不等待、不计入 available/taken（但计入 total）
// - 其他：小写后查询一次，然后等待 Delay
// - 单条失败不影响其他条目；该函数不会提前终止
func Execute(ctx context.Context, opts Options, names []string, checker Checker) domain.RunReport {
	return ExecuteWithObserver(ctx, opts, names, checker, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出逐条结果（由上层决定如何展示）。
func ExecuteWithObserver(ctx context.Context, opts Options, names []string, checker Checker, obs Observer) domain.RunReport {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	rr := domain.RunReport{
		Wordlist:  opts.Wordlist,
		Backend:   opts.Backend,
		StartedAt: time.Now().UTC(),
		Items:     make([]domain.ItemResult, 0, len(names)),
	}

	total := len(names)
	if obs != nil {
		obs.OnStart(total)
	}

	for i, raw := range names {
		idx := i + 1
		started := time.Now()

		if !projectid.Valid(raw) {
			item := domain.ItemResult{
				Index:  idx,
				Raw:    raw,
				ID:     raw,
				Status: domain.StatusInvalid,
				Lookup: domain.LookupSkipped,
			}
			if err := projectid.Check(raw); err != nil {
				item.ErrorMsg = err.Error()
			}
			rr.Items = append(rr.Items, item)
			if obs != nil {
				obs.OnItemDone(idx, total, item, time.Since(started))
			}
			continue
		}

		c := domain.NewCandidate(raw)
		res := checker.Check(ctx, c.ID)

		item := domain.ItemResult{
			Index:  idx,
			Raw:    c.Raw,
			ID:     c.ID,
			Status: domain.StatusAvailable,
			Lookup: res.Kind,
		}
		if res.Exists {
			item.Status = domain.StatusTaken
		}
		if res.Err != nil {
			item.ErrorMsg = res.Err.Error()
		}
		rr.Items = append(rr.Items, item)
		if obs != nil {
			obs.OnItemDone(idx, total, item, time.Since(started))
		}

		// 等待被取消时不再继续等待，但仍处理剩余条目（没有“中途放弃”的语义）。
		_ = sleep(ctx, opts.Delay)
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

// Sleep 等待 d；ctx 结束时提前返回 ctx.Err()。
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package domain

import "time"

// Status 是单个候选的最终分类（对外只有三种）。
type Status string

const (
	StatusInvalid   Status = "invalid"
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
)

// LookupKind 记录远端查询的原始结果，仅用于诊断；不会改变 Status。
type LookupKind string

const (
	LookupFound            LookupKind = "found"
	LookupNotFound         LookupKind = "not_found"
	LookupPermissionDenied LookupKind = "permission_denied"
	LookupUnexpected       LookupKind = "unexpected"
	LookupSkipped          LookupKind = "skipped" // invalid：未发起查询
)

// RunReport 是一次批量检查的结果（只在内存中存在，进程退出即丢弃）。
type RunReport struct {
	Wordlist string
	Backend  string

	StartedAt  time.Time
	FinishedAt time.Time

	Summary ReportSummary
	Items   []ItemResult
}

// ReportSummary 的 Total 包含 invalid 条目。
//
// Unconfirmed 统计“因意外错误被判为 available”的条目：
// 它只用于日志提示，不作为单独的分桶输出（available 列表仍包含这些条目）。
type ReportSummary struct {
	Total       int
	Available   int
	Taken       int
	Invalid     int
	Unconfirmed int
}

type ItemResult struct {
	Index int // 1-based，按文件顺序
	Raw   string
	ID    string

	Status   Status
	Lookup   LookupKind
	ErrorMsg string
}

// Finalize 做两件事：
// 1) 时间统一为 UTC
// 2) summary 由 items 计算得出
//
// items 保持文件顺序，不排序。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	s := ReportSummary{Total: len(r.Items)}
	for _, it := range r.Items {
		switch it.Status {
		case StatusAvailable:
			s.Available++
			if it.Lookup == LookupUnexpected {
				s.Unconfirmed++
			}
		case StatusTaken:
			s.Taken++
		case StatusInvalid:
			s.Invalid++
		}
	}
	r.Summary = s
}

// Available 返回 available 桶（小写 ID，按文件顺序）。
func (r RunReport) Available() []string { return r.bucket(StatusAvailable) }

// Taken 返回 taken 桶（小写 ID，按文件顺序）。
func (r RunReport) Taken() []string { return r.bucket(StatusTaken) }

func (r RunReport) bucket(st Status) []string {
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Status == st {
			out = append(out, it.ID)
		}
	}
	return out
}

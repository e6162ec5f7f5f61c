package domain

import "github.com/John-Robertt/gpcheck/internal/projectid"

// Candidate 是 wordlist 中的一行（已 trim）。
//
// 约束：
// - 校验作用于 Raw（不改大小写）
// - 远端查询只使用 ID（小写形态）
type Candidate struct {
	Raw string
	ID  string
}

// NewCandidate 从 wordlist 行构造 Candidate。小写化是幂等的。
func NewCandidate(raw string) Candidate {
	return Candidate{Raw: raw, ID: projectid.Normalize(raw)}
}

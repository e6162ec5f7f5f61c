// Package projectid 实现 GCP project ID 的本地命名规则校验。
//
// 规则（必须与 wordlist 检查的历史行为逐字一致）：
//   - 长度 6..30（按 Unicode 码点计数，含两端）
//   - 去掉所有 '-' 后，剩余部分非空且全部为字母或数字
//   - 原始字符串的首字符必须是字母
//
// 注意：这里刻意不强制小写、不拒绝结尾的 '-'；
// 大小写由调用方在查询前统一转为小写。
package projectid

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinLen = 6
	MaxLen = 30
)

const (
	RuleLength    = "length"
	RuleCharset   = "charset"
	RuleFirstChar = "first_char"
)

// RuleError 说明候选违反了哪条规则（仅用于日志/诊断）。
type RuleError struct {
	Value string
	Rule  string
}

func (e *RuleError) Error() string {
	switch e.Rule {
	case RuleLength:
		return fmt.Sprintf("%q: length must be %d to %d characters", e.Value, MinLen, MaxLen)
	case RuleCharset:
		return fmt.Sprintf("%q: only letters, digits and hyphens are allowed", e.Value)
	case RuleFirstChar:
		return fmt.Sprintf("%q: must start with a letter", e.Value)
	default:
		return fmt.Sprintf("%q: invalid project id", e.Value)
	}
}

// Valid 是纯函数：无 I/O、无副作用。
func Valid(s string) bool { return Check(s) == nil }

// Check 与 Valid 等价，但返回具体违反的规则。
func Check(s string) error {
	n := utf8.RuneCountInString(s)
	if n < MinLen || n > MaxLen {
		return &RuleError{Value: s, Rule: RuleLength}
	}
	if !isAlnum(strings.ReplaceAll(s, "-", "")) {
		return &RuleError{Value: s, Rule: RuleCharset}
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(first) {
		return &RuleError{Value: s, Rule: RuleFirstChar}
	}
	return nil
}

// Normalize 返回查询用的小写形态（幂等）。
func Normalize(s string) string { return strings.ToLower(s) }

// isAlnum：空串为 false。
func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

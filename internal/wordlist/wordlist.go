package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// ErrCodeNotFound 表示 wordlist 文件不存在。
	ErrCodeNotFound = "wordlist_not_found"
	// ErrCodeIO 表示文件存在但无法读取（权限、目录、非 UTF-8 等）。
	ErrCodeIO = "wordlist_io_error"
)

// maxLine 限制单行长度；远超 project ID 上限的行本身就是无效候选，但不应让读取失败。
const maxLine = 1 << 20

// Error 是读取阶段的结构化错误（带 error_code）。Error() 总是包含文件路径。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("file '%s' not found", e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("read '%s': %v", e.Path, e.Err)
		}
		return fmt.Sprintf("read '%s' failed", e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取 wordlist：每行 trim，跳过空行与 '#' 开头的注释行，保持文件顺序。
//
// 这里只做 trim，不做大小写规范化。
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Code: ErrCodeNotFound, Path: path, Err: err}
		}
		return nil, &Error{Code: ErrCodeIO, Path: path, Err: err}
	}
	defer f.Close()

	names, err := parse(f)
	if err != nil {
		return nil, &Error{Code: ErrCodeIO, Path: path, Err: err}
	}
	return names, nil
}

func parse(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	names := make([]string, 0, 64)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Bytes()
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("line %d is not valid UTF-8", lineNo)
		}
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

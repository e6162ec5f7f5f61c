package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/gpcheck/internal/logx"
)

const (
	// ErrCodeInvalid 表示配置文件/环境变量/CLI 参数无法解析或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	FileName    = "gpcheck.yaml"
	DotEnvName  = ".env"
	EnvPrefix   = "GPCHECK_"
	BackendGRPC = "grpc"
	BackendREST = "rest"
)

// Error.Path 在配置文件路径之外可能取的来源标签。
const (
	envSource      = "environment"
	flagsSource    = "flags"
	defaultsSource = "defaults"
)

const (
	DefaultWordlist = "project-names.txt"
	DefaultDelay    = 200 * time.Millisecond
	DefaultBackend  = BackendGRPC
	DefaultTimeout  = 30 * time.Second
)

// CLIArgs 只包含 CLI 暴露的两项入口（wordlist/delay），并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --delay 0 必须能覆盖环境变量中的 delay。
type CLIArgs struct {
	Wordlist    string
	WordlistSet bool

	DelaySeconds float64
	DelaySet     bool
}

// FileConfig 对应 gpcheck.yaml 的解析结构。指针字段用于区分“未写”和“写了零值”。
type FileConfig struct {
	Wordlist  string   `yaml:"wordlist"`
	Delay     *float64 `yaml:"delay"` // 秒
	Backend   string   `yaml:"backend"`
	Endpoint  string   `yaml:"endpoint"`
	Anonymous *bool    `yaml:"anonymous"`
	Timeout   string   `yaml:"timeout"` // Go duration，例如 "10s"
	LogLevel  string   `yaml:"log_level"`
}

// EnvConfig 对应 GPCHECK_* 环境变量（含 .env 注入的值）。
type EnvConfig struct {
	Wordlist  string         `env:"WORDLIST"`
	Delay     *float64       `env:"DELAY"`
	Backend   string         `env:"BACKEND"`
	Endpoint  string         `env:"ENDPOINT"`
	Anonymous *bool          `env:"ANONYMOUS"`
	Timeout   *time.Duration `env:"TIMEOUT"`
	LogLevel  string         `env:"LOG_LEVEL"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Wordlist string
	Delay    time.Duration

	Backend   string
	Endpoint  string
	Anonymous bool
	Timeout   time.Duration

	LogLevel string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string // 出错来源：配置文件路径、".env"、"environment"、"flags" 或 "defaults"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Path)
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

// LoadEffective 读取可选的 <cwd>/gpcheck.yaml 与 <cwd>/.env，解析 GPCHECK_* 环境变量，然后与 CLI 参数合并。
//
// 覆盖优先级（固定）：CLI（显式指定）> 环境变量（.env 不覆盖已存在的环境变量）> 配置文件 > 内置默认。
//
// wordlist 的相对路径保持原样（相对进程 cwd 打开），与命令行习惯一致。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	dotenv := filepath.Join(cwdAbs, DotEnvName)
	if err := loadDotEnv(dotenv); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: dotenv, Err: err}
	}

	var ec EnvConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: EnvPrefix}); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envSource, Err: err}
	}

	return merge(cli, ec, fc, cfgPath)
}

func merge(cli CLIArgs, ec EnvConfig, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	eff := EffectiveConfig{
		Wordlist: DefaultWordlist,
		Delay:    DefaultDelay,
		Backend:  DefaultBackend,
		Timeout:  DefaultTimeout,
		LogLevel: logx.DefaultLevel,
	}
	// src 记录每个字段最终来自哪一层，校验失败时报告真实来源。
	src := map[string]string{}
	set := func(field, from string) { src[field] = from }

	// 配置文件层。
	if s := strings.TrimSpace(fc.Wordlist); s != "" {
		eff.Wordlist = s
		set("wordlist", cfgPath)
	}
	if fc.Delay != nil {
		d, err := secondsToDuration(*fc.Delay)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("delay: %w", err)}
		}
		eff.Delay = d
	}
	if s := strings.TrimSpace(fc.Backend); s != "" {
		eff.Backend = s
		set("backend", cfgPath)
	}
	if s := strings.TrimSpace(fc.Endpoint); s != "" {
		eff.Endpoint = s
		set("endpoint", cfgPath)
	}
	if fc.Anonymous != nil {
		eff.Anonymous = *fc.Anonymous
		set("anonymous", cfgPath)
	}
	if s := strings.TrimSpace(fc.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("timeout: %w", err)}
		}
		eff.Timeout = d
		set("timeout", cfgPath)
	}
	if s := strings.TrimSpace(fc.LogLevel); s != "" {
		eff.LogLevel = s
		set("log_level", cfgPath)
	}

	// 环境变量层。
	if s := strings.TrimSpace(ec.Wordlist); s != "" {
		eff.Wordlist = s
		set("wordlist", envSource)
	}
	if ec.Delay != nil {
		d, err := secondsToDuration(*ec.Delay)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envSource, Err: fmt.Errorf("%sDELAY: %w", EnvPrefix, err)}
		}
		eff.Delay = d
	}
	if s := strings.TrimSpace(ec.Backend); s != "" {
		eff.Backend = s
		set("backend", envSource)
	}
	if s := strings.TrimSpace(ec.Endpoint); s != "" {
		eff.Endpoint = s
		set("endpoint", envSource)
	}
	if ec.Anonymous != nil {
		eff.Anonymous = *ec.Anonymous
		set("anonymous", envSource)
	}
	if ec.Timeout != nil {
		eff.Timeout = *ec.Timeout
		set("timeout", envSource)
	}
	if s := strings.TrimSpace(ec.LogLevel); s != "" {
		eff.LogLevel = s
		set("log_level", envSource)
	}

	// CLI 层。
	if cli.WordlistSet {
		eff.Wordlist = cli.Wordlist
		set("wordlist", flagsSource)
	}
	if cli.DelaySet {
		d, err := secondsToDuration(cli.DelaySeconds)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: flagsSource, Err: fmt.Errorf("--delay: %w", err)}
		}
		eff.Delay = d
	}

	eff.Backend = strings.ToLower(eff.Backend)
	if err := validate(eff); err != nil {
		from := defaultsSource
		var fe *fieldError
		if errors.As(err, &fe) {
			if s, ok := src[fe.field]; ok {
				from = s
			}
		}
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: from, Err: err}
	}
	return eff, nil
}

// fieldError 标记校验失败的字段，用于回溯该字段来自哪一层。
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

func invalid(field, format string, args ...any) error {
	return &fieldError{field: field, err: fmt.Errorf(format, args...)}
}

func validate(eff EffectiveConfig) error {
	if strings.TrimSpace(eff.Wordlist) == "" {
		return invalid("wordlist", "wordlist must not be empty")
	}
	switch eff.Backend {
	case BackendGRPC:
		if eff.Endpoint != "" && !isHostPort(eff.Endpoint) {
			return invalid("endpoint", "grpc endpoint must be host:port, got %q", eff.Endpoint)
		}
	case BackendREST:
		if eff.Endpoint != "" {
			u, err := url.Parse(eff.Endpoint)
			if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
				return invalid("endpoint", "rest endpoint must be an http(s) URL, got %q", eff.Endpoint)
			}
		}
	default:
		return invalid("backend", "backend must be %s or %s, got %q", BackendGRPC, BackendREST, eff.Backend)
	}
	if eff.Anonymous && eff.Endpoint == "" {
		return invalid("anonymous", "anonymous=true requires an explicit endpoint")
	}
	if eff.Timeout <= 0 {
		return invalid("timeout", "timeout must be positive, got %s", eff.Timeout)
	}
	if _, err := logx.ParseLevel(eff.LogLevel); err != nil {
		return &fieldError{field: "log_level", err: err}
	}
	return nil
}

func isHostPort(s string) bool {
	host, port, err := net.SplitHostPort(s)
	if err != nil || host == "" || strings.Contains(s, "/") {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n <= 65535
}

// secondsToDuration 把秒数（float）转换为 Duration；负数、NaN、Inf 都不合法。
func secondsToDuration(s float64) (time.Duration, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return 0, fmt.Errorf("must be a non-negative number of seconds, got %v", s)
	}
	if s > float64(math.MaxInt64)/float64(time.Second) {
		return 0, fmt.Errorf("too large: %v", s)
	}
	return time.Duration(s * float64(time.Second)), nil
}

// readFileConfig 读取并解析 YAML 配置文件；文件不存在不算错误。
func readFileConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

// loadDotEnv 把 .env 注入进程环境（不覆盖已存在的变量）；文件不存在不算错误。
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

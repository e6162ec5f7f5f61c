package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/gpcheck/internal/app/run"
	"github.com/John-Robertt/gpcheck/internal/config"
	"github.com/John-Robertt/gpcheck/internal/logx"
	"github.com/John-Robertt/gpcheck/internal/lookup"
	"github.com/John-Robertt/gpcheck/internal/lookup/rmgrpc"
	"github.com/John-Robertt/gpcheck/internal/lookup/rmrest"
	"github.com/John-Robertt/gpcheck/internal/wordlist"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2

	authHint = "gcloud auth application-default login"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Cannot read working directory: %v\n", err)
		os.Exit(exitFatal)
	}
	os.Exit(execute(os.Args[1:], deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Cwd:      cwd,
		Registry: newRegistry,
	}))
}

// deps 收拢 CLI 的外部依赖，测试可以替换 backend 注册表与等待函数。
type deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Cwd    string

	Registry func(eff config.EffectiveConfig) (lookup.Registry, error)
	Sleep    run.SleepFunc
}

// exitCodeError 表示 RunE 已经输出了面向用户的提示，只需要以 code 退出。
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func execute(args []string, d deps) int {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd(d)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	// 其余错误都来自参数解析：提示 + usage，退出码 2。
	fmt.Fprintf(d.Stderr, "Error: %v\n\n", err)
	fmt.Fprint(d.Stderr, cmd.UsageString())
	return exitUsage
}

func newRootCmd(d deps) *cobra.Command {
	var delay float64

	cmd := &cobra.Command{
		Use:   "gpcheck [wordlist]",
		Short: "Check availability of GCP project IDs",
		Long: `Check whether Google Cloud project IDs from a wordlist are already taken.

Each line of the wordlist is one candidate; blank lines and lines starting
with '#' are ignored. Candidates that break the project-ID naming rules are
reported as INVALID and never sent to the API.

Credentials come from Application Default Credentials:
  ` + authHint + `

Environment (also read from ./.env) and ./gpcheck.yaml may set:
  GPCHECK_BACKEND (grpc|rest), GPCHECK_ENDPOINT, GPCHECK_ANONYMOUS,
  GPCHECK_TIMEOUT, GPCHECK_LOG_LEVEL, GPCHECK_DELAY, GPCHECK_WORDLIST`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if delay < 0 {
				return fmt.Errorf("--delay must not be negative, got %v", delay)
			}
			cli := config.CLIArgs{
				DelaySeconds: delay,
				DelaySet:     cmd.Flags().Changed("delay"),
			}
			if len(args) == 1 {
				cli.Wordlist = args[0]
				cli.WordlistSet = true
			}
			if code := runCheck(cmd.Context(), d, cli); code != exitOK {
				return &exitCodeError{code: code}
			}
			return nil
		},
	}
	cmd.SetOut(d.Stdout)
	cmd.SetErr(d.Stderr)
	cmd.Flags().Float64VarP(&delay, "delay", "d", config.DefaultDelay.Seconds(),
		"Delay between requests in seconds to respect rate limits")
	return cmd
}

func runCheck(ctx context.Context, d deps, cli config.CLIArgs) int {
	if ctx == nil {
		ctx = context.Background()
	}
	out := d.Stdout

	eff, err := config.LoadEffective(d.Cwd, cli)
	if err != nil {
		fmt.Fprintf(out, "[-] Invalid configuration: %v\n", err)
		return exitFatal
	}

	logger, err := logx.New(eff.LogLevel, d.Stderr)
	if err != nil {
		fmt.Fprintf(out, "[-] Invalid configuration: %v\n", err)
		return exitFatal
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	defer func() { _ = logger.Sync() }()

	fmt.Fprintln(out, "[*] GCP Project ID Availability Checker")
	fmt.Fprintf(out, "[*] Make sure you have authenticated with: %s\n", authHint)
	fmt.Fprintln(out)

	backend, err := openBackend(ctx, d, eff)
	if err != nil {
		fmt.Fprintf(out, "[-] Failed to initialize GCP client: %v\n", err)
		fmt.Fprintf(out, "    Run: %s\n", authHint)
		return exitFatal
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Debug("close backend", zap.Error(err))
		}
	}()
	logger.Debug("backend ready",
		zap.String("backend", backend.Name()),
		zap.String("endpoint", eff.Endpoint),
		zap.Duration("delay", eff.Delay),
	)

	names, err := wordlist.Load(eff.Wordlist)
	if err != nil {
		if wordlist.Code(err) == wordlist.ErrCodeNotFound {
			fmt.Fprintf(out, "[-] Error: File '%s' not found.\n", eff.Wordlist)
		} else {
			fmt.Fprintf(out, "[-] Error reading file: %v\n", err)
		}
		return exitFatal
	}
	fmt.Fprintf(out, "[+] Loaded %d project name(s) from '%s'\n", len(names), eff.Wordlist)

	if len(names) == 0 {
		fmt.Fprintln(out, "[-] No project names to check.")
		return exitOK
	}

	fmt.Fprintf(out, "[*] Checking %d project ID(s)...\n\n", len(names))

	con := newConsole(out)
	started := time.Now()
	rr := run.ExecuteWithObserver(ctx, run.Options{
		Wordlist: eff.Wordlist,
		Backend:  backend.Name(),
		Delay:    eff.Delay,
		Sleep:    d.Sleep,
	}, names, lookup.NewChecker(backend, logger), con)
	con.PrintSummary(rr)

	if rr.Summary.Unconfirmed > 0 {
		logger.Warn("some available project ids could not be confirmed",
			zap.Int("count", rr.Summary.Unconfirmed),
		)
	}
	logger.Debug("run finished",
		zap.Int("total", rr.Summary.Total),
		zap.Int("available", rr.Summary.Available),
		zap.Int("taken", rr.Summary.Taken),
		zap.Int("invalid", rr.Summary.Invalid),
		zap.Duration("elapsed", time.Since(started)),
	)
	return exitOK
}

func openBackend(ctx context.Context, d deps, eff config.EffectiveConfig) (lookup.Backend, error) {
	reg, err := d.Registry(eff)
	if err != nil {
		return nil, err
	}
	return reg.Open(ctx, eff.Backend)
}

// newRegistry 注册两种 backend；只有被选中的那个会真正初始化（并加载凭据）。
func newRegistry(eff config.EffectiveConfig) (lookup.Registry, error) {
	return lookup.NewRegistry(
		lookup.Entry{Name: rmgrpc.Name, Factory: func(ctx context.Context) (lookup.Backend, error) {
			b, err := rmgrpc.New(ctx, rmgrpc.Options{Endpoint: eff.Endpoint, Anonymous: eff.Anonymous, Timeout: eff.Timeout})
			if err != nil {
				return nil, err
			}
			return b, nil
		}},
		lookup.Entry{Name: rmrest.Name, Factory: func(ctx context.Context) (lookup.Backend, error) {
			b, err := rmrest.New(ctx, rmrest.Options{Endpoint: eff.Endpoint, Anonymous: eff.Anonymous, Timeout: eff.Timeout})
			if err != nil {
				return nil, err
			}
			return b, nil
		}},
	)
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/gpcheck/internal/app/run"
	"github.com/John-Robertt/gpcheck/internal/domain"
)

var _ run.Observer = (*console)(nil)

const ruleWidth = 50

// console 把 run 层的事件渲染成逐行输出，并在结束后打印汇总。
//
// 约束：颜色只在 w 是终端时生效（lipgloss renderer 绑定到 w）；非 TTY 时输出纯文本，行格式不变。
type console struct {
	w io.Writer

	good lipgloss.Style
	bad  lipgloss.Style
	head lipgloss.Style
}

func newConsole(w io.Writer) *console {
	r := lipgloss.NewRenderer(w)
	return &console{
		w:    w,
		good: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		bad:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		head: r.NewStyle().Bold(true),
	}
}

func (c *console) OnStart(total int) {}

func (c *console) OnItemDone(idx, total int, item domain.ItemResult, _ time.Duration) {
	switch item.Status {
	case domain.StatusInvalid:
		fmt.Fprintf(c.w, "[%d/%d] ❌ %s: %s (does not meet GCP naming rules)\n",
			idx, total, c.bad.Render("INVALID"), item.Raw)
	case domain.StatusAvailable:
		// 未确认的 available 必须在 stdout 上可见，不受日志级别影响。
		if item.Lookup == domain.LookupUnexpected {
			fmt.Fprintf(c.w, "[!] Unexpected error checking '%s': %s\n", item.ID, item.ErrorMsg)
		}
		fmt.Fprintf(c.w, "[%d/%d] ✅ %-30s → %s\n", idx, total, item.ID, c.good.Render("AVAILABLE"))
	default:
		fmt.Fprintf(c.w, "[%d/%d] ❌ %-30s → %s\n", idx, total, item.ID, c.bad.Render("TAKEN"))
	}
}

// PrintSummary 输出汇总块。invalid 不计入 Available/Taken，但计入 Total checked。
func (c *console) PrintSummary(rr domain.RunReport) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w, c.head.Render("SUMMARY"))
	fmt.Fprintln(c.w, rule)
	fmt.Fprintf(c.w, "Total checked : %d\n", rr.Summary.Total)
	fmt.Fprintf(c.w, "Available     : %d\n", rr.Summary.Available)
	fmt.Fprintf(c.w, "Taken         : %d\n", rr.Summary.Taken)

	avail := rr.Available()
	fmt.Fprintln(c.w)
	if len(avail) == 0 {
		fmt.Fprintln(c.w, "😢 No available project IDs found.")
		return
	}
	fmt.Fprintln(c.w, c.good.Render("🎉 AVAILABLE PROJECT IDs:"))
	for _, id := range avail {
		fmt.Fprintf(c.w, "   • %s\n", id)
	}
}

package run

import (
	"time"

	"github.com/John-Robertt/gpcheck/internal/domain"
)

// Observer 用于把“逐条结果输出”从批量检查流程中解耦出来。
//
// 约束：run 包只负责发事件，不做任何输出；Execute 是串行的，事件按文件顺序到达。
type Observer interface {
	// OnStart 在第一条候选开始前调用。
	OnStart(total int)
	// OnItemDone 在每条候选完成后调用（invalid 也会调用）。dur 不含限速等待。
	OnItemDone(idx, total int, item domain.ItemResult, dur time.Duration)
}

package pipeline

import (
	"fmt"
	"time"
)

// CombinedIndex 是整段合成结果的序号。
const CombinedIndex = -1

// Outcome 单次合成的结果。Err 为 nil 表示成功。
type Outcome struct {
	Index    int
	Text     string
	Path     string
	Bytes    int
	Duration time.Duration
	Skipped  bool
	Err      error
}

// Label 返回日志中使用的名称：片段序号或 "combined"。
func (o Outcome) Label() string {
	if o.Index == CombinedIndex {
		return "combined"
	}
	return fmt.Sprintf("%d", o.Index)
}

// OK 判断是否成功（跳过已存在文件也算成功）。
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report 一次逐句合成的全部结果，按处理顺序排列，整段合成在最后。
type Report struct {
	Outcomes []Outcome
}

// Failed 返回失败的结果。
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Succeeded 返回成功的数量。
func (r *Report) Succeeded() int {
	return len(r.Outcomes) - len(r.Failed())
}

// Combined 返回整段合成的结果。
func (r *Report) Combined() (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Index == CombinedIndex {
			return o, true
		}
	}
	return Outcome{}, false
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/iabetor/voiceover/internal/audio"
	"github.com/iabetor/voiceover/internal/logger"
	"github.com/iabetor/voiceover/internal/narration"
	"github.com/iabetor/voiceover/internal/tts"
)

// Recorder 接收每一次合成结果。
type Recorder interface {
	Record(o Outcome)
}

// Runner 按顺序调用合成后端并把结果写入输出目录。
// 合成调用严格串行：上一次写盘完成后才发起下一次调用。
type Runner struct {
	synth        tts.Synthesizer
	outDir       string
	skipExisting bool
	recorder     Recorder
}

// Option 配置 Runner。
type Option func(*Runner)

// WithSkipExisting 为 true 时保留已存在的输出文件。
func WithSkipExisting(skip bool) Option {
	return func(r *Runner) { r.skipExisting = skip }
}

// WithRecorder 设置合成结果的记录器。
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// New 创建 Runner。
func New(synth tts.Synthesizer, outDir string, opts ...Option) *Runner {
	r := &Runner{synth: synth, outDir: outDir}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SegmentFileName 返回第 i 个片段的输出文件名。
func SegmentFileName(i int) string {
	return fmt.Sprintf("voice_%d.mp3", i)
}

// RunSingle 将整段旁白合成为一个文件。任何错误都直接返回给调用方。
func (r *Runner) RunSingle(ctx context.Context, text, fileName string) (Outcome, error) {
	store, err := audio.NewStore(r.outDir)
	if err != nil {
		return Outcome{}, err
	}

	logger.Infof("[pipeline] 正在使用 %s 合成旁白，输出目录 %s", tts.NameOf(r.synth), store.Dir())

	o := r.attempt(ctx, store, 0, text, fileName, 0)
	if r.recorder != nil {
		r.recorder.Record(o)
	}
	if o.Err != nil {
		return o, o.Err
	}

	logger.Infof("[pipeline] 完成！音频已保存到: %s", o.Path)
	return o, nil
}

// RunSegments 逐句合成旁白，再用 sep 拼接全部片段合成一个整段文件。
// 单个片段失败只记录日志，不影响后续片段和整段合成。
// 只有创建输出目录失败时返回错误。
func (r *Runner) RunSegments(ctx context.Context, segments []narration.Segment, sep, combinedFile string) (*Report, error) {
	store, err := audio.NewStore(r.outDir)
	if err != nil {
		return nil, err
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(segments)+1)}
	logger.Infof("[pipeline] 正在使用 %s 逐句合成 %d 个片段，输出目录 %s", tts.NameOf(r.synth), len(segments), store.Dir())

	for i, seg := range segments {
		o := r.attempt(ctx, store, i, seg.Text, SegmentFileName(i), seg.TargetSeconds)
		r.finish(report, o)
		if o.Err != nil {
			logger.Errorf("[pipeline] 片段 %d 合成失败: %v", i, o.Err)
			continue
		}
		logger.Infof("[pipeline] 已生成: %s", o.Path)
	}

	combined := narration.Combine(segments, sep)
	o := r.attempt(ctx, store, CombinedIndex, combined, combinedFile, 0)
	r.finish(report, o)
	if o.Err != nil {
		logger.Errorf("[pipeline] 整段音频合成失败 (combined): %v", o.Err)
	} else {
		logger.Infof("[pipeline] 整段音频已保存到: %s", o.Path)
	}

	return report, nil
}

func (r *Runner) finish(report *Report, o Outcome) {
	report.Outcomes = append(report.Outcomes, o)
	if r.recorder != nil {
		r.recorder.Record(o)
	}
}

// attempt 合成一段文本并写入 fileName，所有错误都放在 Outcome.Err 中。
func (r *Runner) attempt(ctx context.Context, store *audio.Store, index int, text, fileName string, targetSeconds float64) Outcome {
	o := Outcome{Index: index, Text: text, Path: store.Path(fileName)}

	if r.skipExisting && store.Exists(fileName) {
		logger.Infof("[pipeline] 跳过 %s（文件已存在）", o.Path)
		o.Skipped = true
		return o
	}

	data, err := r.synth.Synthesize(ctx, text)
	if err != nil {
		o.Err = err
		return o
	}

	path, err := store.Save(fileName, data)
	if err != nil {
		o.Err = err
		return o
	}
	o.Path = path
	o.Bytes = len(data)

	info, err := audio.Probe(data)
	if err != nil {
		logger.Debugf("[pipeline] 无法解析 %s 的时长: %v", path, err)
		return o
	}
	o.Duration = info.Duration

	if targetSeconds > 0 {
		target := time.Duration(targetSeconds * float64(time.Second))
		if o.Duration > target {
			logger.Warnf("[pipeline] %s 时长 %v 超过预留的 %v", path, o.Duration.Round(time.Millisecond), target)
		}
	}
	return o
}

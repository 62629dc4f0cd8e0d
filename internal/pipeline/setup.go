package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/iabetor/voiceover/internal/config"
	"github.com/iabetor/voiceover/internal/database"
	"github.com/iabetor/voiceover/internal/logger"
	"github.com/iabetor/voiceover/internal/narration"
	"github.com/iabetor/voiceover/internal/translate"
	"github.com/iabetor/voiceover/internal/tts"
)

// NewCloudEngine 根据 cloud.engine 创建整段旁白使用的云端 TTS 引擎。
func NewCloudEngine(cfg *config.Config) (tts.Synthesizer, error) {
	c := cfg.Cloud
	switch c.Engine {
	case "gtts":
		return tts.NewGTTSEngine(tts.GTTSConfig{
			Lang:              c.Lang,
			Slow:              c.Slow,
			TLD:               c.GTTS.TLD,
			RequestsPerMinute: c.GTTS.RequestsPerMinute,
			Timeout:           time.Duration(c.GTTS.TimeoutSec) * time.Second,
		}), nil
	case "tencent":
		return tts.NewTencentEngine(tts.TencentConfig{
			SecretID:  c.Tencent.SecretID,
			SecretKey: c.Tencent.SecretKey,
			VoiceType: c.Tencent.VoiceType,
			Region:    c.Tencent.Region,
			Lang:      c.Lang,
			Slow:      c.Slow,
		})
	default:
		return nil, fmt.Errorf("不支持的云端 TTS 引擎: %s", c.Engine)
	}
}

// NewEdgeEngine 创建逐句旁白使用的 Edge TTS 引擎。
func NewEdgeEngine(cfg *config.Config) *tts.EdgeEngine {
	return tts.NewEdgeEngine(cfg.Edge.Voice)
}

// NewTranslator 在配置了 translate.target 时创建翻译器，否则返回 nil。
func NewTranslator(cfg *config.Config) (*translate.Translator, error) {
	if cfg.Translate.Target == "" {
		return nil, nil
	}
	return translate.New(translate.Config{
		SecretID:  cfg.Translate.SecretID,
		SecretKey: cfg.Translate.SecretKey,
		Region:    cfg.Translate.Region,
		Source:    cfg.Translate.Source,
		Target:    cfg.Translate.Target,
	})
}

// PrepareScript 返回整段旁白的最终文本，tr 为 nil 时原样返回。
func PrepareScript(ctx context.Context, tr *translate.Translator, script string) (string, error) {
	if tr == nil {
		return script, nil
	}
	return tr.Text(ctx, script)
}

// PrepareSegments 返回逐句旁白的最终片段，tr 为 nil 时原样返回。
func PrepareSegments(ctx context.Context, tr *translate.Translator, segments []narration.Segment) ([]narration.Segment, error) {
	if tr == nil {
		return segments, nil
	}
	return tr.Segments(ctx, segments)
}

// History 打开的生成记录，Close 时写入结束时间并关闭数据库。
type History struct {
	db  *database.DB
	rec *HistoryRecorder
}

// OpenHistory 在 history.enabled 为 true 时打开数据库并开始一条运行记录。
// 未启用时返回 nil；Recorder 和 Close 可以在 nil 上调用。
func OpenHistory(cfg *config.Config, script, engine, voice string) (*History, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}

	db, err := database.Open(cfg.History.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	last, err := db.LatestRun(script)
	if err != nil {
		logger.Warnf("[pipeline] 读取上次生成记录失败: %v", err)
	} else if last != nil {
		logger.Infof("[pipeline] 上次运行: %s (%s, 输出目录 %s)", last.ID, last.StartedAt.Local().Format("2006-01-02 15:04:05"), last.OutputDir)
	}

	rec, err := StartHistory(db, script, engine, voice, cfg.Output.Dir)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Infof("[pipeline] 生成记录已启用: %s (run=%s)", db.Path(), rec.RunID())
	return &History{db: db, rec: rec}, nil
}

// Options 返回向 Runner 注册 Recorder 的选项。
func (h *History) Options() []Option {
	if h == nil {
		return nil
	}
	return []Option{WithRecorder(h.rec)}
}

// Close 结束运行记录并关闭数据库。
func (h *History) Close() {
	if h == nil {
		return
	}
	h.rec.Finish()
	if err := h.db.Close(); err != nil {
		logger.Warnf("[pipeline] 关闭生成记录数据库失败: %v", err)
	}
}

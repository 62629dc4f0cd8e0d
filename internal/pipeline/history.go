package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/iabetor/voiceover/internal/database"
	"github.com/iabetor/voiceover/internal/logger"
)

// HistoryRecorder 把合成结果写入生成记录数据库。
// 写入失败只记录警告，不影响合成流程。
type HistoryRecorder struct {
	db    *database.DB
	runID string
}

// StartHistory 写入一条新的运行记录并返回对应的 Recorder。
func StartHistory(db *database.DB, script, engine, voice, outDir string) (*HistoryRecorder, error) {
	runID := uuid.New().String()
	err := db.BeginRun(database.Run{
		ID:        runID,
		Script:    script,
		Engine:    engine,
		Voice:     voice,
		OutputDir: outDir,
		StartedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	logger.Debugf("[pipeline] 生成记录已开始: run=%s", runID)
	return &HistoryRecorder{db: db, runID: runID}, nil
}

// RunID 返回本次运行的 ID。
func (h *HistoryRecorder) RunID() string {
	return h.runID
}

// Record 实现 Recorder 接口。
func (h *HistoryRecorder) Record(o Outcome) {
	a := database.Artifact{
		RunID:    h.runID,
		Position: o.Index,
		Path:     o.Path,
		Text:     o.Text,
		Bytes:    o.Bytes,
		Duration: o.Duration,
		Skipped:  o.Skipped,
	}
	if o.Err != nil {
		a.Error = o.Err.Error()
	}
	if err := h.db.AddArtifact(a); err != nil {
		logger.Warnf("[pipeline] 写入生成记录失败: %v", err)
	}
}

// Finish 记录运行结束时间。
func (h *HistoryRecorder) Finish() {
	if err := h.db.FinishRun(h.runID, time.Now()); err != nil {
		logger.Warnf("[pipeline] 更新生成记录失败: %v", err)
	}
}

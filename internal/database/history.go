package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run 一次脚本运行。
type Run struct {
	ID         string
	Script     string // cloud 或 edge
	Engine     string
	Voice      string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Artifact 一次合成的结果，Position 为 -1 表示整段合成。
type Artifact struct {
	RunID    string
	Position int
	Path     string
	Text     string
	Bytes    int
	Duration time.Duration
	Skipped  bool
	Error    string
}

// BeginRun 写入一条运行记录。
func (db *DB) BeginRun(run Run) error {
	_, err := db.Exec(
		`INSERT INTO runs (id, script, engine, voice, output_dir, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Script, run.Engine, run.Voice, run.OutputDir, run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("[database] 写入运行记录失败: %w", err)
	}
	return nil
}

// FinishRun 记录运行结束时间。
func (db *DB) FinishRun(runID string, at time.Time) error {
	res, err := db.Exec(`UPDATE runs SET finished_at = ? WHERE id = ?`, at.UTC(), runID)
	if err != nil {
		return fmt.Errorf("[database] 更新运行记录失败: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("[database] 运行记录不存在: %s", runID)
	}
	return nil
}

// AddArtifact 写入一条合成结果。
func (db *DB) AddArtifact(a Artifact) error {
	_, err := db.Exec(
		`INSERT INTO artifacts (run_id, position, path, text, bytes, duration_ms, skipped, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Position, a.Path, a.Text, a.Bytes, a.Duration.Milliseconds(), a.Skipped, a.Error,
	)
	if err != nil {
		return fmt.Errorf("[database] 写入合成记录失败: %w", err)
	}
	return nil
}

// Artifacts 按写入顺序返回某次运行的全部合成结果。
func (db *DB) Artifacts(runID string) ([]Artifact, error) {
	rows, err := db.Query(
		`SELECT run_id, position, path, text, bytes, duration_ms, skipped, error
		 FROM artifacts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("[database] 查询合成记录失败: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var a Artifact
		var durationMs int64
		if err := rows.Scan(&a.RunID, &a.Position, &a.Path, &a.Text, &a.Bytes, &durationMs, &a.Skipped, &a.Error); err != nil {
			return nil, fmt.Errorf("[database] 读取合成记录失败: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}

// LatestRun 返回最近一次指定脚本的运行记录，没有记录时返回 nil。
func (db *DB) LatestRun(script string) (*Run, error) {
	row := db.QueryRow(
		`SELECT id, script, engine, voice, output_dir, started_at, finished_at
		 FROM runs WHERE script = ? ORDER BY started_at DESC LIMIT 1`, script)

	var r Run
	var finished sql.NullTime
	if err := row.Scan(&r.ID, &r.Script, &r.Engine, &r.Voice, &r.OutputDir, &r.StartedAt, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("[database] 查询运行记录失败: %w", err)
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}

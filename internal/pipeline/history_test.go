package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iabetor/voiceover/internal/database"
	"github.com/iabetor/voiceover/internal/narration"
)

func TestHistoryRecorder_RecordsRun(t *testing.T) {
	observeLogs(t)

	db, err := database.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	outDir := t.TempDir()
	rec, err := StartHistory(db, "edge", "stub", "en-US-ChristopherNeural", outDir)
	if err != nil {
		t.Fatalf("StartHistory failed: %v", err)
	}

	synth := &stubSynth{failOn: map[string]error{"b": errors.New("boom")}}
	segments := []narration.Segment{{Text: "a"}, {Text: "b"}}
	if _, err := New(synth, outDir, WithRecorder(rec)).RunSegments(context.Background(), segments, "", "voice_combined.mp3"); err != nil {
		t.Fatal(err)
	}
	rec.Finish()

	artifacts, err := db.Artifacts(rec.RunID())
	if err != nil {
		t.Fatalf("Artifacts failed: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].Error != "" || artifacts[0].Bytes != len("audio:a") {
		t.Errorf("artifact 0 = %+v", artifacts[0])
	}
	if artifacts[1].Error != "boom" {
		t.Errorf("artifact 1 error = %q", artifacts[1].Error)
	}
	if artifacts[2].Position != CombinedIndex || artifacts[2].Text != "a ... b" {
		t.Errorf("artifact 2 = %+v", artifacts[2])
	}

	run, err := db.LatestRun("edge")
	if err != nil || run == nil || run.ID != rec.RunID() {
		t.Fatalf("LatestRun = %+v, %v", run, err)
	}
}

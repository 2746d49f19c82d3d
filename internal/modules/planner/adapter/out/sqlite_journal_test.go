package out_test

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	plannerout "siapkit/internal/modules/planner/adapter/out"
	"siapkit/internal/modules/planner/domain"
)

func TestSQLiteJournalRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state", "journal.db")
	journal, err := plannerout.NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		if closer, ok := journal.(io.Closer); ok {
			_ = closer.Close()
		}
	})

	started := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	ctx := context.Background()
	entries := []domain.ClassResult{
		{RunID: "run-a", Index: 0, Label: "6A | Português", State: domain.Returned, LessonsSaved: 3, OK: true, StartedAt: started, FinishedAt: started.Add(2 * time.Minute)},
		{RunID: "run-a", Index: 1, Label: "7B | Matemática", State: domain.ClassOpened, Note: "could not enter edit mode", StartedAt: started.Add(3 * time.Minute), FinishedAt: started.Add(4 * time.Minute)},
	}
	for _, entry := range entries {
		if err := journal.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := journal.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 results, got %d", len(recent))
	}
	newest, oldest := recent[0], recent[1]
	if newest.Index != 1 || newest.OK || newest.State != domain.ClassOpened || newest.Note == "" {
		t.Fatalf("unexpected newest entry: %+v", newest)
	}
	if oldest.Label != "6A | Português" || oldest.LessonsSaved != 3 || !oldest.OK || oldest.State != domain.Returned {
		t.Fatalf("unexpected oldest entry: %+v", oldest)
	}
	if !oldest.StartedAt.Equal(started) || !oldest.FinishedAt.Equal(started.Add(2*time.Minute)) {
		t.Fatalf("timestamps not preserved: %v %v", oldest.StartedAt, oldest.FinishedAt)
	}

	limited, err := journal.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %v %v", limited, err)
	}
}

func TestSQLiteJournalKeepsReturnSeparateFromSuccess(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "journal.db")
	journal, err := plannerout.NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		if closer, ok := journal.(io.Closer); ok {
			_ = closer.Close()
		}
	})

	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	failedTree := domain.ClassResult{
		RunID: "run-b", Index: 2, Label: "8C | Ciências", State: domain.Returned,
		LessonsSaved: 1, OK: false, Note: "lesson 12: lesson tree not found",
		StartedAt: now, FinishedAt: now.Add(time.Minute),
	}
	if err := journal.Record(ctx, failedTree); err != nil {
		t.Fatalf("record: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var returned, ok int
	if err := db.QueryRowContext(ctx, `SELECT returned_cleanly, ok FROM class_results WHERE run_id = ?`, "run-b").Scan(&returned, &ok); err != nil {
		t.Fatalf("query row: %v", err)
	}
	if returned != 1 || ok != 0 {
		t.Fatalf("expected returned_cleanly=1 ok=0, got %d %d", returned, ok)
	}

	recent, err := journal.Recent(ctx, 1)
	if err != nil || len(recent) != 1 {
		t.Fatalf("recent: %v %v", recent, err)
	}
	if recent[0].OK || !recent[0].ReturnedCleanly() {
		t.Fatalf("unexpected round trip: %+v", recent[0])
	}
}

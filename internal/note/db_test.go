package note

import (
	"context"
	"testing"

	"notable/internal/jobs"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// one connection so the in-memory database is shared across the pool
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(&Note{}, &Label{}, &NoteLabel{}, &jobs.Job{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func mustCreateNote(t *testing.T, s *Service, userID uint64, title, content string) *Note {
	t.Helper()
	n, err := s.Create(context.Background(), userID, CreateInput{Title: title, Content: content})
	if err != nil {
		t.Fatalf("create note %q: %v", title, err)
	}
	return n
}

func mustCreateLabel(t *testing.T, l *Labels, userID uint64, name string) *Label {
	t.Helper()
	lb, err := l.Create(context.Background(), userID, name, "")
	if err != nil {
		t.Fatalf("create label %q: %v", name, err)
	}
	return lb
}

func mustSetLabels(t *testing.T, s *Service, noteID, userID uint64, labelIDs ...uint64) {
	t.Helper()
	if err := s.SetLabels(context.Background(), noteID, userID, labelIDs); err != nil {
		t.Fatalf("set labels on note %d: %v", noteID, err)
	}
}

func noteIDs(notes []NoteWithLabels) []uint64 {
	out := make([]uint64, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func hasNoteID(notes []NoteWithLabels, id uint64) bool {
	for _, n := range notes {
		if n.ID == id {
			return true
		}
	}
	return false
}

package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"notable/internal/upload"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestWorker(t *testing.T) (*Worker, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(&Job{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	files, err := upload.NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return &Worker{ID: "test-worker", Repo: &Repo{DB: gdb}, Files: files}, gdb
}

func TestEnqueueAttachmentDelete(t *testing.T) {
	_, gdb := newTestWorker(t)

	if err := EnqueueAttachmentDelete(gdb, 1, "/uploads/x.bin"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	var j Job
	if err := gdb.First(&j).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if j.Type != TypeAttachmentDelete || j.Status != "PENDING" {
		t.Fatalf("unexpected job %+v", j)
	}
	if j.RunAt.After(time.Now().Add(time.Second)) {
		t.Fatalf("cleanup jobs run immediately, got run_at %v", j.RunAt)
	}
}

func TestHandleAttachmentDeleteRemovesFile(t *testing.T) {
	w, gdb := newTestWorker(t)

	target := filepath.Join(w.Files.Dir, "gone.bin")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := EnqueueAttachmentDelete(gdb, 1, "/uploads/gone.bin"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	var j Job
	if err := gdb.First(&j).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}

	w.Handle(&j)

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err=%v", err)
	}
	if err := gdb.First(&j, j.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if j.Status != "DONE" {
		t.Fatalf("want DONE, got %q", j.Status)
	}
}

func TestHandleAttachmentDeleteMissingFileIsDone(t *testing.T) {
	w, gdb := newTestWorker(t)

	if err := EnqueueAttachmentDelete(gdb, 1, "/uploads/never-existed.bin"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	var j Job
	if err := gdb.First(&j).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}

	w.Handle(&j)

	if err := gdb.First(&j, j.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if j.Status != "DONE" {
		t.Fatalf("want DONE for missing file, got %q", j.Status)
	}
}

func TestHandleUnknownTypeFails(t *testing.T) {
	w, gdb := newTestWorker(t)

	j := Job{UserID: 1, Type: "SOMETHING_ELSE", Payload: []byte(`{}`), RunAt: time.Now(), Status: "PENDING"}
	if err := gdb.Create(&j).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	w.Handle(&j)

	if err := gdb.First(&j, j.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if j.Status != "FAILED" {
		t.Fatalf("want FAILED, got %q", j.Status)
	}
}

package jobs

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"notable/internal/upload"
)

// Worker drains the queue. The only job kind today is attachment file
// cleanup, requested by the note service when a file reference is replaced
// or its note deleted.
type Worker struct {
	ID    string
	Repo  *Repo
	Files *upload.Store
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(800 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				log.Printf("worker claim error: %v\n", err)
				continue
			}
			if job == nil {
				continue
			}
			w.Handle(job)
		}
	}
}

func (w *Worker) Handle(job *Job) {
	switch job.Type {
	case TypeAttachmentDelete:
		w.handleAttachmentDelete(job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleAttachmentDelete(job *Job) {
	type payload struct {
		Path string `json:"path"`
	}
	var p payload
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.Path == "" {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	// Remove treats an already-missing file as success.
	if err := w.Files.Remove(p.Path); err != nil {
		w.retry(job, err.Error())
		return
	}

	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}

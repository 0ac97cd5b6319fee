package note

import (
	"context"
	"errors"
	"strings"

	"notable/internal/jobs"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Title      string
	Content    string
	Attachment *string
}

type UpdateInput struct {
	Title   string
	Content string
	// Attachment, when non-nil, replaces the stored reference. The old
	// file is scheduled for deletion in the same transaction.
	Attachment *string
}

func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (*Note, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ErrValidation
	}

	n := Note{
		UserID:     userID,
		Title:      title,
		Content:    content,
		Attachment: in.Attachment,
	}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Service) Get(ctx context.Context, noteID, userID uint64) (*NoteWithLabels, error) {
	out, err := s.hydrate(ctx, userID, []uint64{noteID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *Service) Update(ctx context.Context, noteID, userID uint64, in UpdateInput) (*Note, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ErrValidation
	}

	var n Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", noteID, userID).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		n.Title = title
		n.Content = content

		if in.Attachment != nil {
			if n.Attachment != nil && *n.Attachment != *in.Attachment {
				if err := jobs.EnqueueAttachmentDelete(tx, userID, *n.Attachment); err != nil {
					return err
				}
			}
			n.Attachment = in.Attachment
		}

		return tx.Save(&n).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes the note, its label associations and schedules removal of
// its attachment file, all in one transaction.
func (s *Service) Delete(ctx context.Context, noteID, userID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Note
		if err := tx.Where("id = ? AND user_id = ?", noteID, userID).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("note_id = ?", noteID).Delete(&NoteLabel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&n).Error; err != nil {
			return err
		}

		if n.Attachment != nil {
			return jobs.EnqueueAttachmentDelete(tx, userID, *n.Attachment)
		}
		return nil
	})
}

// SetLabels replaces the note's label set. Every id must reference a label
// owned by userID; otherwise nothing is written. Replace-all inside a single
// transaction so readers never observe a half-updated set.
func (s *Service) SetLabels(ctx context.Context, noteID, userID uint64, labelIDs []uint64) error {
	ids := dedupe(labelIDs)

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n Note
		if err := tx.Where("id = ? AND user_id = ?", noteID, userID).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if len(ids) > 0 {
			var owned int64
			if err := tx.Model(&Label{}).
				Where("id IN ? AND user_id = ?", ids, userID).
				Count(&owned).Error; err != nil {
				return err
			}
			if owned != int64(len(ids)) {
				return ErrNotFound
			}
		}

		if err := tx.Where("note_id = ?", noteID).Delete(&NoteLabel{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		rows := make([]NoteLabel, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, NoteLabel{NoteID: noteID, LabelID: id, UserID: userID})
		}
		return tx.Create(&rows).Error
	})
}

func dedupe(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

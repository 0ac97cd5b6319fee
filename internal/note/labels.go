package note

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// DefaultColor is used when a label is created or updated without a valid
// hex color.
const DefaultColor = "#6c757d"

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Labels is the per-user label catalog.
type Labels struct {
	DB *gorm.DB
}

// List returns every label the user owns, name ascending.
func (l *Labels) List(ctx context.Context, userID uint64) ([]Label, error) {
	var out []Label
	err := l.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// ListUsed returns only the labels attached to at least one of the user's
// notes. This feeds the filter UI, which has no use for never-attached labels.
func (l *Labels) ListUsed(ctx context.Context, userID uint64) ([]Label, error) {
	var out []Label
	err := l.DB.WithContext(ctx).
		Model(&Label{}).
		Distinct("labels.*").
		Joins("JOIN note_labels ON note_labels.label_id = labels.id").
		Where("labels.user_id = ?", userID).
		Order("labels.name asc").
		Find(&out).Error
	return out, err
}

func (l *Labels) Create(ctx context.Context, userID uint64, name, color string) (*Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	if !hexColorRe.MatchString(color) {
		color = DefaultColor
	}

	lb := Label{UserID: userID, Name: name, Color: color}
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Label{}).
			Where("user_id = ? AND name = ?", userID, name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}
		if err := tx.Create(&lb).Error; err != nil {
			// A concurrent insert can still trip the unique index.
			if isUniqueViolation(err) {
				return ErrDuplicateName
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

// Update renames and/or recolors a label. Nil means keep the current value.
func (l *Labels) Update(ctx context.Context, labelID, userID uint64, name, color *string) (*Label, error) {
	var lb Label
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", labelID, userID).First(&lb).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if name != nil {
			newName := strings.TrimSpace(*name)
			if newName == "" {
				return ErrValidation
			}
			if newName != lb.Name {
				var count int64
				if err := tx.Model(&Label{}).
					Where("user_id = ? AND name = ? AND id <> ?", userID, newName, labelID).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return ErrDuplicateName
				}
			}
			lb.Name = newName
		}
		if color != nil {
			c := *color
			if !hexColorRe.MatchString(c) {
				c = DefaultColor
			}
			lb.Color = c
		}

		if err := tx.Save(&lb).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateName
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

// Delete removes the label and every association referencing it. Notes that
// carried the label are untouched.
func (l *Labels) Delete(ctx context.Context, labelID, userID uint64) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lb Label
		if err := tx.Where("id = ? AND user_id = ?", labelID, userID).First(&lb).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("label_id = ?", labelID).Delete(&NoteLabel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lb).Error
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

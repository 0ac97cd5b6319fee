package note

import "time"

// Note is a user-owned text note with an optional attachment reference.
// Attachment is an opaque path handed over by the upload layer; the core
// only stores it and requests cleanup when it is replaced or dropped.
type Note struct {
	ID         uint64    `gorm:"primaryKey"`
	UserID     uint64    `gorm:"index;not null"`
	Title      string    `gorm:"not null"`
	Content    string    `gorm:"type:text;not null"`
	Attachment *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"index;not null"`
}

// Label is scoped per user: (user_id, name) is unique, the name alone is not.
type Label struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"index;not null"`
	Name      string    `gorm:"index;not null"`
	Color     string    `gorm:"not null;default:'#6c757d'"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NoteLabel is the join table. UserID duplicates the note owner for
// index locality on per-user filter queries.
type NoteLabel struct {
	NoteID  uint64 `gorm:"primaryKey"`
	LabelID uint64 `gorm:"primaryKey"`
	UserID  uint64 `gorm:"index;not null"`
}

// NoteWithLabels is the read-side shape: a note plus its complete label set.
type NoteWithLabels struct {
	Note
	Labels []Label
}

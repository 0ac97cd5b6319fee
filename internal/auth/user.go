package auth

import "time"

// User accounts are never hard-deleted. PasswordHash is nil for accounts
// that only ever signed in through an external identity provider; those
// carry ExternalID instead.
type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:text"`
	ExternalID   *string   `gorm:"type:text"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
}

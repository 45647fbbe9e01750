package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Token is a persisted session token. One live row per user is reused on
// repeated logins until it expires.
type Token struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	JTI       uuid.UUID `json:"jti" gorm:"uniqueIndex;type:uuid"`
	Token     string    `json:"-" gorm:"type:text"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

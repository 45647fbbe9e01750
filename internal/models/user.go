package models

import (
	"time"
)

// User is an account that can log in, own contacts and be assigned to tasks.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"not null"`
	Password      string    `json:"-" gorm:"not null"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Initials      string    `json:"initials"`
	Color         string    `json:"color"`
	RememberLogin bool      `json:"rememberlogin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Contacts []Contact `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// FullName is the display name used in login responses and task assignee lists.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

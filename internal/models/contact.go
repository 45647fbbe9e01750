package models

import (
	"time"
)

// Contact is an address book entry owned by exactly one user.
type Contact struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Name         string    `json:"name"`
	Initials     string    `json:"initials"`
	Email        string    `json:"email" gorm:"not null"`
	Phone        string    `json:"phone"`
	Color        string    `json:"color"`
	TaskAssigned bool      `json:"task_assigned"`
	UserID       uint      `json:"user" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

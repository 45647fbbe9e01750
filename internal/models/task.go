package models

import (
	"time"
)

// Task is a board item with scheduling metadata, owned subtasks and a
// many-to-many set of assigned users.
type Task struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CategoryBoard string    `json:"categoryboard"`
	Prio          string    `json:"prio"`
	DueDate       string    `json:"dueDate"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Assignees []User    `json:"-" gorm:"many2many:task_assignees"`
	Subtasks  []Subtask `json:"subtasks" gorm:"constraint:OnDelete:CASCADE"`
}

// Subtask belongs to exactly one task and is deleted with it.
type Subtask struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Title  string `json:"title" gorm:"not null"`
	Status bool   `json:"subtaskStatus"`
	TaskID uint   `json:"-" gorm:"not null;index"`
}

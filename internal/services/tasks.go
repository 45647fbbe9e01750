package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"gorm.io/gorm"
)

// TaskInput carries a full or partial task submission. Nil fields on update
// keep their persisted value; a nil AssignedToID or Subtasks leaves that set
// untouched, while an explicit empty list clears it.
type TaskInput struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Category      *string         `json:"category"`
	CategoryBoard *string         `json:"categoryboard"`
	Prio          *string         `json:"prio"`
	DueDate       *string         `json:"dueDate"`
	AssignedToID  *[]uint         `json:"assignedToID"`
	Subtasks      *[]SubtaskInput `json:"subtasks"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, input TaskInput) (models.Task, error)
	GetTaskByID(db *gorm.DB, id uint) (models.Task, error)
	GetTasks(db *gorm.DB) ([]models.Task, error)
	UpdateTask(db *gorm.DB, id uint, input TaskInput) (models.Task, error)
	DeleteTask(db *gorm.DB, id uint) error
}

type TaskServiceImpl struct {
	reconciler SubtaskReconciler
}

func NewTaskService(reconciler SubtaskReconciler) *TaskServiceImpl {
	return &TaskServiceImpl{reconciler: reconciler}
}

// CreateTask persists a new task together with its assignee set and subtasks
// in one transaction.
func (s *TaskServiceImpl) CreateTask(db *gorm.DB, input TaskInput) (models.Task, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := validateDueDate(input.DueDate); err != nil {
		return models.Task{}, err
	}

	var taskID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		task := models.Task{Title: *input.Title}
		applyScalars(&task, input)

		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		taskID = task.ID

		if input.AssignedToID != nil {
			if err := replaceAssignees(tx, &task, *input.AssignedToID); err != nil {
				return err
			}
		}
		if input.Subtasks != nil {
			if err := s.reconciler.Reconcile(tx, task.ID, *input.Subtasks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return s.GetTaskByID(db, taskID)
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uint) (models.Task, error) {
	var task models.Task
	err := db.Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("subtasks.id")
	}).Preload("Assignees").First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return task, fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	return task, err
}

func (s *TaskServiceImpl) GetTasks(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("subtasks.id")
	}).Preload("Assignees").Order("id").Find(&tasks).Error
	return tasks, err
}

// UpdateTask applies one coherent task update: scalar fields merge over the
// persisted values, the assignee set is replaced wholesale when supplied, and
// the subtask set is reconciled when supplied. Everything runs inside a
// single transaction so a late failure leaves no partial write behind.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id uint, input TaskInput) (models.Task, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if err := validateDueDate(input.DueDate); err != nil {
		return models.Task{}, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: task %d", ErrNotFound, id)
			}
			return err
		}

		applyScalars(&task, input)
		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}

		if input.AssignedToID != nil {
			if err := replaceAssignees(tx, &task, *input.AssignedToID); err != nil {
				return err
			}
		}
		if input.Subtasks != nil {
			if err := s.reconciler.Reconcile(tx, task.ID, *input.Subtasks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return s.GetTaskByID(db, id)
}

// DeleteTask removes the task, its subtasks and its assignee links.
func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: task %d", ErrNotFound, id)
			}
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return fmt.Errorf("failed to delete subtasks of task %d: %w", id, err)
		}
		if err := tx.Model(&task).Association("Assignees").Clear(); err != nil {
			return fmt.Errorf("failed to clear assignees of task %d: %w", id, err)
		}
		if err := tx.Delete(&task).Error; err != nil {
			return fmt.Errorf("failed to delete task %d: %w", id, err)
		}
		return nil
	})
}

func applyScalars(task *models.Task, input TaskInput) {
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.CategoryBoard != nil {
		task.CategoryBoard = *input.CategoryBoard
	}
	if input.Prio != nil {
		task.Prio = *input.Prio
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
}

// replaceAssignees swaps the collaborator set for the supplied user ids,
// deduplicated. Every referenced user must exist.
func replaceAssignees(tx *gorm.DB, task *models.Task, ids []uint) error {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	if len(unique) == 0 {
		if err := tx.Model(task).Association("Assignees").Clear(); err != nil {
			return fmt.Errorf("failed to clear assignees: %w", err)
		}
		return nil
	}

	var users []models.User
	if err := tx.Where("id IN ?", unique).Find(&users).Error; err != nil {
		return fmt.Errorf("failed to load assignees: %w", err)
	}
	if len(users) != len(unique) {
		return fmt.Errorf("%w: assigned user does not exist", ErrNotFound)
	}

	if err := tx.Model(task).Association("Assignees").Replace(users); err != nil {
		return fmt.Errorf("failed to replace assignees: %w", err)
	}
	return nil
}

func validateDueDate(dueDate *string) error {
	if dueDate == nil || *dueDate == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *dueDate); err != nil {
		return fmt.Errorf("%w: dueDate must be formatted YYYY-MM-DD", ErrValidation)
	}
	return nil
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"gorm.io/gorm"
)

// SubtaskInput is one submitted subtask descriptor. A nil ID marks a subtask
// the client considers new.
type SubtaskInput struct {
	ID     *uint  `json:"id"`
	Title  string `json:"title"`
	Status bool   `json:"subtaskStatus"`
}

// SubtaskReconciler synchronizes the persisted subtask set of a task with a
// client-submitted descriptor list: descriptors matching an existing subtask
// of the task by id are updated in place, the rest are created, and persisted
// subtasks not covered by the submission are deleted.
type SubtaskReconciler interface {
	Reconcile(tx *gorm.DB, taskID uint, inputs []SubtaskInput) error
}

type SubtaskReconcilerImpl struct{}

func NewSubtaskReconciler() *SubtaskReconcilerImpl {
	return &SubtaskReconcilerImpl{}
}

// Reconcile runs on the caller's transaction handle so the subtask changes
// commit or roll back together with the rest of the task update.
//
// An id that does not resolve under the target task (stale, foreign, or
// deleted concurrently) is not an error: the descriptor degrades to a
// creation with a fresh id. Descriptors are applied in submission order, so
// duplicate ids within one submission resolve last-write-wins.
func (r *SubtaskReconcilerImpl) Reconcile(tx *gorm.DB, taskID uint, inputs []SubtaskInput) error {
	for _, in := range inputs {
		if strings.TrimSpace(in.Title) == "" {
			return fmt.Errorf("%w: subtask title is required", ErrValidation)
		}
	}

	// Ids that survive the deletion pass: every matched update and every
	// fresh creation.
	kept := make(map[uint]bool, len(inputs))

	for _, in := range inputs {
		if in.ID != nil {
			var existing models.Subtask
			err := tx.Where("id = ? AND task_id = ?", *in.ID, taskID).First(&existing).Error
			if err == nil {
				existing.Title = in.Title
				existing.Status = in.Status
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("failed to update subtask %d: %w", existing.ID, err)
				}
				kept[existing.ID] = true
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up subtask %d: %w", *in.ID, err)
			}
			// Unmatched id: fall through and create a fresh row.
		}

		created := models.Subtask{
			Title:  in.Title,
			Status: in.Status,
			TaskID: taskID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create subtask: %w", err)
		}
		kept[created.ID] = true
	}

	if len(kept) == 0 {
		return tx.Where("task_id = ?", taskID).Delete(&models.Subtask{}).Error
	}

	keptIDs := make([]uint, 0, len(kept))
	for id := range kept {
		keptIDs = append(keptIDs, id)
	}
	return tx.Where("task_id = ? AND id NOT IN ?", taskID, keptIDs).Delete(&models.Subtask{}).Error
}

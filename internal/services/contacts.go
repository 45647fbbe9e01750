package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"gorm.io/gorm"
)

// ContactInput carries a full or partial contact submission. Nil fields on
// update keep their persisted value.
type ContactInput struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Name         *string `json:"name"`
	Initials     *string `json:"initials"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Color        *string `json:"color"`
	TaskAssigned *bool   `json:"task_assigned"`
	UserID       *uint   `json:"user"`
}

type ContactService interface {
	CreateContact(db *gorm.DB, input ContactInput) (models.Contact, error)
	GetContacts(db *gorm.DB) ([]models.Contact, error)
	GetContactByID(db *gorm.DB, id uint) (models.Contact, error)
	UpdateContact(db *gorm.DB, id uint, input ContactInput) (models.Contact, error)
	DeleteContact(db *gorm.DB, id uint) error
}

type ContactServiceImpl struct{}

func NewContactService() *ContactServiceImpl {
	return &ContactServiceImpl{}
}

func (s *ContactServiceImpl) CreateContact(db *gorm.DB, input ContactInput) (models.Contact, error) {
	if input.Email == nil || strings.TrimSpace(*input.Email) == "" {
		return models.Contact{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.UserID == nil {
		return models.Contact{}, fmt.Errorf("%w: user is required", ErrValidation)
	}

	var owner models.User
	if err := db.First(&owner, "id = ?", *input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Contact{}, fmt.Errorf("%w: user %d", ErrNotFound, *input.UserID)
		}
		return models.Contact{}, err
	}

	contact := models.Contact{Email: *input.Email, UserID: *input.UserID}
	applyContactFields(&contact, input)
	if contact.Name == "" {
		contact.Name = strings.TrimSpace(contact.FirstName + " " + contact.LastName)
	}
	if contact.Initials == "" {
		contact.Initials = deriveInitials(contact.FirstName, contact.LastName)
	}

	if err := db.Create(&contact).Error; err != nil {
		return models.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) GetContacts(db *gorm.DB) ([]models.Contact, error) {
	var contacts []models.Contact
	err := db.Order("id").Find(&contacts).Error
	return contacts, err
}

func (s *ContactServiceImpl) GetContactByID(db *gorm.DB, id uint) (models.Contact, error) {
	var contact models.Contact
	err := db.First(&contact, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return contact, fmt.Errorf("%w: contact %d", ErrNotFound, id)
	}
	return contact, err
}

func (s *ContactServiceImpl) UpdateContact(db *gorm.DB, id uint, input ContactInput) (models.Contact, error) {
	if input.Email != nil && strings.TrimSpace(*input.Email) == "" {
		return models.Contact{}, fmt.Errorf("%w: email must not be empty", ErrValidation)
	}

	var contact models.Contact
	if err := db.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact, fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return contact, err
	}

	if input.UserID != nil && *input.UserID != contact.UserID {
		var owner models.User
		if err := db.First(&owner, "id = ?", *input.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Contact{}, fmt.Errorf("%w: user %d", ErrNotFound, *input.UserID)
			}
			return models.Contact{}, err
		}
	}

	applyContactFields(&contact, input)
	if err := db.Save(&contact).Error; err != nil {
		return models.Contact{}, fmt.Errorf("failed to update contact %d: %w", id, err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) DeleteContact(db *gorm.DB, id uint) error {
	var contact models.Contact
	if err := db.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return err
	}
	return db.Delete(&contact).Error
}

func applyContactFields(contact *models.Contact, input ContactInput) {
	if input.FirstName != nil {
		contact.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		contact.LastName = *input.LastName
	}
	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Initials != nil {
		contact.Initials = *input.Initials
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Color != nil {
		contact.Color = *input.Color
	}
	if input.TaskAssigned != nil {
		contact.TaskAssigned = *input.TaskAssigned
	}
	if input.UserID != nil {
		contact.UserID = *input.UserID
	}
}

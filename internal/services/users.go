package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput is a registration payload.
type UserInput struct {
	Username      string `json:"username" binding:"required,min=3,max=150"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Initials      string `json:"initials"`
	Color         string `json:"color"`
	RememberLogin bool   `json:"rememberlogin"`
}

type UserService interface {
	CreateUser(db *gorm.DB, input UserInput) (models.User, error)
	GetUsers(db *gorm.DB) ([]models.User, error)
	GetUserByID(db *gorm.DB, id uint) (models.User, error)
	DeleteUser(db *gorm.DB, id uint) error
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

func (s *UserServiceImpl) CreateUser(db *gorm.DB, input UserInput) (models.User, error) {
	var existing models.User
	if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return models.User{}, fmt.Errorf("%w: username already exists", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}
	if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return models.User{}, fmt.Errorf("%w: email already exists", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:      input.Username,
		Email:         input.Email,
		Password:      string(hashed),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Initials:      input.Initials,
		Color:         input.Color,
		RememberLogin: input.RememberLogin,
	}
	if user.Initials == "" {
		user.Initials = deriveInitials(input.FirstName, input.LastName)
	}

	if err := db.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Order("id").Find(&users).Error
	return users, err
}

func (s *UserServiceImpl) GetUserByID(db *gorm.DB, id uint) (models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, err
}

// DeleteUser removes the account together with everything it owns: contacts,
// session tokens and its membership in task assignee sets.
func (s *UserServiceImpl) DeleteUser(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, id)
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
			return fmt.Errorf("failed to delete contacts of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Token{}).Error; err != nil {
			return fmt.Errorf("failed to delete tokens of user %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM task_assignees WHERE user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unassign user %d from tasks: %w", id, err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		return nil
	})
}

func deriveInitials(firstName, lastName string) string {
	var b strings.Builder
	for _, name := range []string{firstName, lastName} {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			b.WriteString(strings.ToUpper(trimmed[:1]))
		}
	}
	return b.String()
}

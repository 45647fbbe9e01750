package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test. The shared-cache
// name is derived from the test name so parallel tests never collide.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Contact{}, &models.Task{}, &models.Subtask{}, &models.Token{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
		Initials:  "TU",
		Color:     "#ff7a00",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestTask(t *testing.T, db *gorm.DB, title string, subtasks ...models.Subtask) models.Task {
	t.Helper()

	task := models.Task{Title: title, Subtasks: subtasks}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
	return task
}

func countSubtasks(t *testing.T, db *gorm.DB, taskID uint) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Subtask{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count subtasks: %v", err)
	}
	return count
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

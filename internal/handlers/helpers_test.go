package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"github.com/LukasNolting/JOIN-Backend/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

// setupTestRouter wires the real services behind the production routes.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)

	authHandler := NewAuthHandler(db, services.NewAuthService())
	userHandler := NewUserHandler(db, services.NewUserService())
	taskHandler := NewTaskHandler(db, services.NewTaskService(services.NewSubtaskReconciler()))
	contactHandler := NewContactHandler(db, services.NewContactService())

	r := gin.New()
	r.POST("/login/", authHandler.Login)
	r.POST("/users/", userHandler.Register)
	r.DELETE("/users/:id/", userHandler.DeleteUser)

	api := r.Group("/api")
	api.GET("/users/", userHandler.GetUsers)
	api.GET("/tasks/", taskHandler.GetTasks)
	api.POST("/tasks/", taskHandler.CreateTask)
	api.GET("/tasks/:id/", taskHandler.GetTaskByID)
	api.PUT("/tasks/:id/", taskHandler.UpdateTask)
	api.DELETE("/tasks/:id/", taskHandler.DeleteTask)
	api.GET("/contacts/", contactHandler.GetContacts)
	api.POST("/contacts/", contactHandler.CreateContact)
	api.PUT("/contacts/:id/", contactHandler.UpdateContact)
	api.DELETE("/contacts/:id/", contactHandler.DeleteContact)

	return r, db
}

func performRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
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
		Color:     "#29abe2",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

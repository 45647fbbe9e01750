package services

import (
	"errors"
	"testing"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
)

func TestLoginUser_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	createTestUser(t, db, "anna")

	_, err := svc.LoginUser(db, "anna", "wrongpassword")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}

	// A failed login must leave no token behind.
	var tokens int64
	db.Model(&models.Token{}).Count(&tokens)
	if tokens != 0 {
		t.Errorf("Expected 0 token rows after failed login, got %d", tokens)
	}
}

func TestLoginUser_UnknownUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	_, err := svc.LoginUser(db, "ghost", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUser_Success(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	created := createTestUser(t, db, "anna")

	user, err := svc.LoginUser(db, "anna", "password123")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Expected user %d, got %d", created.ID, user.ID)
	}
}

func TestIssueToken_ReusesLiveToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	user := createTestUser(t, db, "anna")

	first, err := svc.IssueToken(db, &user)
	if err != nil {
		t.Fatalf("First IssueToken failed: %v", err)
	}
	second, err := svc.IssueToken(db, &user)
	if err != nil {
		t.Fatalf("Second IssueToken failed: %v", err)
	}

	if first != second {
		t.Error("Expected repeated logins to reuse the live token")
	}

	var tokens int64
	db.Model(&models.Token{}).Where("user_id = ?", user.ID).Count(&tokens)
	if tokens != 1 {
		t.Errorf("Expected exactly 1 token row, got %d", tokens)
	}
}

func TestParseToken_Roundtrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	user := createTestUser(t, db, "anna")

	token, err := svc.IssueToken(db, &user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	userID, err := svc.ParseToken(db, token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if userID != user.ID {
		t.Errorf("Expected user id %d, got %d", user.ID, userID)
	}
}

func TestParseToken_RevokedToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	user := createTestUser(t, db, "anna")

	token, err := svc.IssueToken(db, &user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	// Deleting the row revokes the token even though the signature is valid.
	if err := db.Where("user_id = ?", user.ID).Delete(&models.Token{}).Error; err != nil {
		t.Fatalf("Failed to delete token row: %v", err)
	}

	_, err = svc.ParseToken(db, token)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials for revoked token, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService()

	_, err := svc.ParseToken(db, "not.a.token")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

package services

import (
	"errors"
	"testing"
)

func TestCreateContact_OwnerMustExist(t *testing.T) {
	db := setupTestDB(t)
	svc := NewContactService()

	_, err := svc.CreateContact(db, ContactInput{
		Email:  strPtr("nobody@example.com"),
		UserID: uintPtr(999),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing owner, got %v", err)
	}
}

func TestCreateContact_DerivesNameAndInitials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewContactService()

	owner := createTestUser(t, db, "owner")
	contact, err := svc.CreateContact(db, ContactInput{
		FirstName: strPtr("Max"),
		LastName:  strPtr("Mustermann"),
		Email:     strPtr("max@example.com"),
		UserID:    uintPtr(owner.ID),
	})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if contact.Name != "Max Mustermann" {
		t.Errorf("Expected derived name 'Max Mustermann', got %q", contact.Name)
	}
	if contact.Initials != "MM" {
		t.Errorf("Expected derived initials MM, got %q", contact.Initials)
	}
}

func TestCreateContact_MissingEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewContactService()

	owner := createTestUser(t, db, "owner")
	_, err := svc.CreateContact(db, ContactInput{UserID: uintPtr(owner.ID)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestUpdateContact_PartialMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewContactService()

	owner := createTestUser(t, db, "owner")
	created, err := svc.CreateContact(db, ContactInput{
		FirstName: strPtr("Max"),
		LastName:  strPtr("Mustermann"),
		Email:     strPtr("max@example.com"),
		Phone:     strPtr("+49 123 456"),
		UserID:    uintPtr(owner.ID),
	})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	updated, err := svc.UpdateContact(db, created.ID, ContactInput{
		Phone: strPtr("+49 987 654"),
	})
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}

	if updated.Phone != "+49 987 654" {
		t.Errorf("Expected updated phone, got %q", updated.Phone)
	}
	if updated.Email != "max@example.com" || updated.FirstName != "Max" {
		t.Errorf("Expected unsupplied fields to keep prior values, got (%s, %s)", updated.Email, updated.FirstName)
	}
}

func TestUpdateContact_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewContactService()

	_, err := svc.UpdateContact(db, 777, ContactInput{Phone: strPtr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteContact(t *testing.T) {
	db := setupTestDB(t)
	svc := NewContactService()

	owner := createTestUser(t, db, "owner")
	created, err := svc.CreateContact(db, ContactInput{
		Email:  strPtr("gone@example.com"),
		UserID: uintPtr(owner.ID),
	})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	if err := svc.DeleteContact(db, created.ID); err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}

	_, err = svc.GetContactByID(db, created.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

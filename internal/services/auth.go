package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"github.com/LukasNolting/JOIN-Backend/internal/utils"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	LoginUser(db *gorm.DB, username, password string) (*models.User, error)
	IssueToken(db *gorm.DB, user *models.User) (string, error)
	ParseToken(db *gorm.DB, tokenString string) (uint, error)
}

type AuthServiceImpl struct{}

func NewAuthService() *AuthServiceImpl {
	return &AuthServiceImpl{}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// LoginUser checks the credentials without touching any state. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) LoginUser(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// IssueToken returns the user's live session token, minting one only when no
// unexpired token exists. Tokens are signed JWTs whose jti is persisted so
// they can be revoked by deleting the row.
func (s *AuthServiceImpl) IssueToken(db *gorm.DB, user *models.User) (string, error) {
	var existing models.Token
	err := db.Where("user_id = ? AND expires_at > ?", user.ID, time.Now()).First(&existing).Error
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up session token: %w", err)
	}

	secret := utils.GetEnv("TOKEN_SECRET", "default_secret_change_in_production")
	ttl := utils.GetEnvAsDuration("TOKEN_TTL", 24*time.Hour)

	jti, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate jti: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"user_id": float64(user.ID),
		"jti":     jti.String(),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
		"iss":     "join-backend",
		"aud":     "join-users",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	record := models.Token{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    user.ID,
		JTI:       jti,
		Token:     signed,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to persist session token: %w", err)
	}

	return signed, nil
}

// ParseToken verifies the signature and requires a live persisted row for
// the token's jti. Returns the authenticated user id.
func (s *AuthServiceImpl) ParseToken(db *gorm.DB, tokenString string) (uint, error) {
	secret := utils.GetEnv("TOKEN_SECRET", "default_secret_change_in_production")

	claims, err := utils.ParseJWT(tokenString, secret)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return 0, fmt.Errorf("%w: missing jti", ErrInvalidCredentials)
	}
	jti, err := uuid.FromString(jtiStr)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed jti", ErrInvalidCredentials)
	}

	userIDClaim, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: missing user_id", ErrInvalidCredentials)
	}

	var record models.Token
	err = db.Where("jti = ? AND expires_at > ?", jti, time.Now()).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: token revoked or expired", ErrInvalidCredentials)
		}
		return 0, err
	}

	return uint(userIDClaim), nil
}

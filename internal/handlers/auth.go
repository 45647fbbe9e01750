package handlers

import (
	"net/http"

	"github.com/LukasNolting/JOIN-Backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db          *gorm.DB
	authService services.AuthService
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService) *AuthHandler {
	return &AuthHandler{db: db, authService: authService}
}

// Login verifies the credentials and returns the session token together with
// the user's display attributes.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.LoginUser(h.db, req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	token, err := h.authService.IssueToken(h.db, user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"user_id":       user.ID,
		"email":         user.Email,
		"initials":      user.Initials,
		"color":         user.Color,
		"rememberlogin": user.RememberLogin,
		"username":      user.Username,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"name":          user.FullName(),
	})
}

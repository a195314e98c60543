package users

import (
	"errors"
	"net/http"
	"time"

	"brickshot/database"
	"brickshot/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MeResponse struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
}

// GET /me
func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Lastname:     user.Lastname,
		Role:         user.Role,
		AuthProvider: user.AuthProvider,
		HasPassword:  user.Password != nil && *user.Password != "",
		CreatedAt:    user.CreatedAt,
	})
}

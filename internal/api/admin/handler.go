package admin

import (
	"errors"
	"net/http"
	"time"

	"brickshot/database"
	ds "brickshot/internal/domain/shotlist"
	"brickshot/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	Projects     int64     `json:"projects"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminStats struct {
	TotalUsers     int64            `json:"total_users"`
	TotalProjects  int64            `json:"total_projects"`
	TotalScenes    int64            `json:"total_scenes"`
	TotalShots     int64            `json:"total_shots"`
	ShotsPerStatus map[string]int64 `json:"shots_per_status"`
}

func ListAllUsers(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	var all []users.User
	if err := db.Order("created_at ASC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	type ownerCount struct {
		OwnerID uint
		Count   int64
	}
	var counts []ownerCount
	if err := db.Model(&ds.Project{}).
		Select("owner_id, COUNT(id) as count").
		Group("owner_id").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count projects"})
		return
	}
	perOwner := make(map[uint]int64, len(counts))
	for _, oc := range counts {
		perOwner[oc.OwnerID] = oc.Count
	}

	out := make([]AdminUser, 0, len(all))
	for _, u := range all {
		out = append(out, AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Lastname:     u.Lastname,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			Projects:     perOwner[u.ID],
			CreatedAt:    u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	var stats AdminStats

	db.Model(&users.User{}).Count(&stats.TotalUsers)
	db.Model(&ds.Project{}).Count(&stats.TotalProjects)
	db.Model(&ds.Scene{}).Count(&stats.TotalScenes)
	db.Model(&ds.Shot{}).Count(&stats.TotalShots)

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	db.Model(&ds.Shot{}).
		Select("status, COUNT(id) as count").
		Group("status").
		Scan(&counts)

	stats.ShotsPerStatus = make(map[string]int64, len(ds.Statuses))
	for _, st := range ds.Statuses {
		stats.ShotsPerStatus[string(st)] = 0
	}
	for _, sc := range counts {
		stats.ShotsPerStatus[sc.Status] = sc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	userID := c.Param("id")

	var user users.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	var projects []ds.Project
	if err := db.Where("owner_id = ?", user.ID).Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": AdminUser{
			ID:           user.ID,
			Name:         user.Name,
			Lastname:     user.Lastname,
			Email:        user.Email,
			Role:         user.Role,
			AuthProvider: user.AuthProvider,
			Projects:     int64(len(projects)),
			CreatedAt:    user.CreatedAt,
		},
		"projects": projects,
	})
}

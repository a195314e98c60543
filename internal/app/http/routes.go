package routes

import (
	"brickshot/internal/api/admin"
	authapi "brickshot/internal/api/auth"
	projectsapi "brickshot/internal/api/projects"
	scenesapi "brickshot/internal/api/scenes"
	shotsapi "brickshot/internal/api/shots"
	"brickshot/internal/api/users"
	"brickshot/internal/app/http/middleware"
	"brickshot/internal/board"
	"brickshot/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Sign-in endpoints allow a burst of 10 and then one request every 6s per IP.
const (
	authRate  = rate.Limit(1.0 / 6)
	authBurst = 10
)

func RegisterRoutes(r *gin.Engine, svc *board.Service) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(metrics.Middleware())

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Input sanitization applies to public routes only; shot text is
	// stored as typed.
	public := api.Group("/")
	public.Use(
		middleware.RateLimit(authRate, authBurst),
		middleware.SanitizeAndCleanInputMiddleware("password", "old_password", "new_password"),
	)

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)

	projects := projectsapi.NewHandler(svc)
	auth.GET("/projects", projects.List)
	auth.POST("/projects", projects.Create)
	auth.POST("/projects/import", projects.Import)
	auth.GET("/projects/:id", projects.Get)
	auth.PUT("/projects/:id", projects.Update)
	auth.DELETE("/projects/:id", projects.Delete)
	auth.POST("/projects/:id/open", projects.Open)
	auth.GET("/projects/:id/export", projects.Export)

	scenes := scenesapi.NewHandler(svc)
	auth.GET("/projects/:id/scenes", scenes.List)
	auth.POST("/projects/:id/scenes", scenes.Create)
	auth.GET("/scenes/:id", scenes.Get)
	auth.PUT("/scenes/:id", scenes.Update)
	auth.DELETE("/scenes/:id", scenes.Delete)
	auth.POST("/scenes/:id/swap", scenes.Swap)

	shots := shotsapi.NewHandler(svc)
	auth.GET("/scenes/:id/shots", shots.List)
	auth.POST("/scenes/:id/shots", shots.Create)
	auth.GET("/shots/:id", shots.Get)
	auth.PUT("/shots/:id", shots.Update)
	auth.DELETE("/shots/:id", shots.Delete)
	auth.POST("/shots/:id/cycle", shots.Cycle)
	auth.POST("/shots/:id/toggle-unsure", shots.ToggleUnsure)
	auth.POST("/shots/:id/lock", shots.Lock)
	auth.PUT("/shots/:id/code", shots.EditCode)
	auth.POST("/shots/:id/attachments", shots.AddAttachment)
	auth.POST("/attachments/upload-url", shots.UploadURL)

	adminGroup := auth.Group("/admin")
	adminGroup.Use(middleware.RequireRole("admin"))
	adminGroup.GET("/users", admin.ListAllUsers)
	adminGroup.GET("/users/:id", admin.GetUserDetails)
	adminGroup.GET("/stats", admin.GetAdminStats)
}

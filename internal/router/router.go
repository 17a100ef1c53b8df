package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/handlers"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", handlers.Home)
	r.GET("/signin", handlers.SignIn)
	r.GET("/health", handlers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}

	projects := r.Group("/projects", middleware.AuthMiddleware())
	{
		projects.GET("", handlers.ListProjects)
		projects.POST("", handlers.CreateProject)
		projects.GET("/:project_id", handlers.ShowProject)
		projects.PATCH("/:project_id", handlers.UpdateProject)
		projects.DELETE("/:project_id", handlers.DeleteProject)
		projects.PATCH("/:project_id/complete", handlers.CompleteProject)

		// Nested resources authorize against the parent project.
		projects.POST("/:project_id/tasks", handlers.CreateTask)
		projects.GET("/:project_id/tasks/:task_id", handlers.ShowTask)
		projects.POST("/:project_id/notes", handlers.CreateNote)
		projects.GET("/:project_id/notes", handlers.SearchNotes)
	}

	r.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.ProjectActivity)

	return r
}

package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TutorRoutes(app *fiber.App, db *gorm.DB) {
	h := handlers.NewTutorHandler(db)
	tutor := app.Group("/api/v1/tutor")

	tutor.Post("/signup", h.Signup)
	tutor.Post("/login", h.Login)

	protected := tutor.Group("", middleware.Protected(), middleware.ActiveAccount(db), middleware.RoleRequired(models.RoleTutor))
	protected.Get("/profile", h.GetProfile)
	protected.Post("/update-profile", h.UpdateProfile)
}

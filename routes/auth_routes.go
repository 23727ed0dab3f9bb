package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	h := handlers.NewAuthHandler(db)
	auth := app.Group("/api/v1/user/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/admin/login", h.AdminLogin)

	auth.Get("/profile", middleware.Protected(), middleware.ActiveAccount(db), h.GetProfile)
	auth.Post("/update-profile", middleware.Protected(), middleware.ActiveAccount(db), h.UpdateProfile)
}

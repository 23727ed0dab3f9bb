package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UploadRoutes(app *fiber.App, db *gorm.DB) {
	uploads := app.Group("/api/v1/uploads", middleware.Protected(), middleware.ActiveAccount(db))
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}

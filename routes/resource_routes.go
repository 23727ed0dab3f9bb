package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ResourceRoutes(app *fiber.App, db *gorm.DB) {
	h := handlers.NewResourceHandler(db)
	resource := app.Group("/api/v1/resource",
		middleware.Protected(),
		middleware.ActiveAccount(db),
		middleware.RoleRequired(models.RoleAdmin, models.RoleSuperAdmin, models.RoleUser))

	resource.Get("/", h.GetAllResources)
	resource.Get("/stats", h.GetResourceStats)
	resource.Get("/:id", h.GetResourceByID)
	resource.Post("/", h.CreateResource)
	resource.Patch("/:id", h.UpdateResource)
	resource.Delete("/:id", h.DeleteResource)
	resource.Post("/:id/download", h.IncrementDownload)
}

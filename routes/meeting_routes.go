package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/rtc"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MeetingRoutes is the legacy flat surface kept for older mobile builds.
func MeetingRoutes(app *fiber.App, db *gorm.DB, tokens rtc.TokenProvider) {
	h := handlers.NewMeetingHandler(db, tokens)
	meeting := app.Group("/api/v1/meeting",
		middleware.Protected(),
		middleware.ActiveAccount(db),
		middleware.RoleRequired(models.RoleUser, models.RoleCounselor))

	meeting.Post("/token", h.GenerateToken)
	meeting.Post("/end", h.EndMeeting)
}

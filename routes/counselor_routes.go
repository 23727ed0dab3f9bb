package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/rtc"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CounselorRoutes(app *fiber.App, db *gorm.DB, tokens rtc.TokenProvider) {
	h := handlers.NewCounselorHandler(db)
	mh := handlers.NewMeetingHandler(db, tokens)

	counselor := app.Group("/api/v1/admin/counselor")
	counselor.Post("/login", h.Login)

	auth := func(roles ...string) []fiber.Handler {
		return []fiber.Handler{middleware.Protected(), middleware.ActiveAccount(db), middleware.RoleRequired(roles...)}
	}
	adminOnly := auth(models.RoleAdmin, models.RoleSuperAdmin)
	userOnly := auth(models.RoleUser)
	counselorOnly := auth(models.RoleCounselor)
	participants := auth(models.RoleUser, models.RoleCounselor)

	counselor.Post("/", append(adminOnly, h.CreateCounselor)...)
	counselor.Get("/active", append(userOnly, h.GetActiveCounselors)...)
	counselor.Get("/", append(auth(models.RoleAdmin, models.RoleSuperAdmin, models.RoleUser), h.GetAllCounselors)...)

	counselor.Post("/request", append(userOnly, h.CreateConsultationRequest)...)

	counselor.Get("/requests", append(counselorOnly, h.GetConsultationRequests)...)
	counselor.Post("/requests/:id/accept", append(counselorOnly, h.AcceptConsultationRequest)...)
	counselor.Post("/requests/:id/reject", append(counselorOnly, h.RejectConsultationRequest)...)

	counselor.Put("/availability", append(counselorOnly, h.SetAvailability)...)
	counselor.Get("/profile", append(counselorOnly, h.GetProfile)...)
	counselor.Patch("/profile", append(counselorOnly, h.UpdateProfile)...)
	counselor.Get("/revenue", append(counselorOnly, h.GetRevenue)...)

	counselor.Get("/meetings", append(participants, mh.GetMyMeetings)...)
	counselor.Get("/meetings/:meetingId", append(participants, mh.GetMeetingByID)...)
	counselor.Post("/meetings/:meetingId/join", append(participants, mh.JoinMeeting)...)
	counselor.Post("/meetings/:meetingId/token", append(participants, mh.GenerateToken)...)
	counselor.Post("/meetings/end", append(participants, mh.EndMeeting)...)
}

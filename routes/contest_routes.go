package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ContestRoutes(app *fiber.App, db *gorm.DB) {
	h := handlers.NewContestHandler(db)
	contest := app.Group("/api/v1/admin/contest", middleware.Protected(), middleware.ActiveAccount(db))

	admin := middleware.AdminRequired()
	learner := middleware.RoleRequired(models.RoleUser)

	// Learner routes are registered before the parameterized admin ones
	// so "/published" never matches ":contestId".
	contest.Get("/published", learner, h.GetPublishedContests)
	contest.Get("/:contestId/details", learner, h.GetContestDetails)
	contest.Post("/:contestId/start", learner, h.StartContest)
	contest.Post("/:contestId/submit", learner, h.SubmitContest)
	contest.Get("/:contestId/leaderboard", learner, h.GetLeaderboard)

	contest.Post("/", admin, h.CreateContest)
	contest.Get("/", admin, h.GetAllContestsAdmin)
	contest.Put("/:contestId/publish", admin, h.PublishContest)
	contest.Post("/:contestId/questions", admin, h.AddQuestion)
	contest.Get("/:contestId", admin, h.GetContestByIDAdmin)
	contest.Put("/:contestId", admin, h.UpdateContest)
}

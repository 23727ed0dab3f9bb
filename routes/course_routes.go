package routes

import (
	"github.com/skillup-app/skillup_backend/handlers"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CourseRoutes(app *fiber.App, db *gorm.DB) {
	h := handlers.NewCourseHandler(db)
	eh := handlers.NewEnrollmentHandler(db)

	courses := app.Group("/api/v1/admin/courses", middleware.Protected(), middleware.ActiveAccount(db))
	admin := middleware.AdminRequired()
	learner := middleware.RoleRequired(models.RoleUser)

	courses.Get("/courses", learner, h.GetPublishedCourses)
	courses.Get("/courses/:courseId", learner, h.GetCourseDetail)
	courses.Get("/lessons/:lessonId", learner, h.GetLessonVideo)
	courses.Get("/enrolled", learner, eh.GetEnrolledCourses)
	courses.Post("/:courseId/enroll", learner, eh.EnrollCourse)
	courses.Get("/:courseId/enrollment-status", learner, eh.CheckEnrollment)
	courses.Put("/:courseId/progress", learner, eh.UpdateProgress)
	courses.Delete("/:courseId/unenroll", learner, eh.UnenrollCourse)

	courses.Get("/", admin, h.GetAllCoursesAdmin)
	courses.Post("/", admin, h.CreateCourse)
	courses.Patch("/:courseId", admin, h.UpdateCourse)
	courses.Put("/:courseId/publish", admin, h.TogglePublishCourse)
	courses.Get("/:courseId/lessons", admin, h.GetCourseLessons)
	courses.Post("/:courseId/lessons", admin, h.AddLesson)
	courses.Put("/lessons/:lessonId", admin, h.UpdateLesson)
	courses.Delete("/lessons/:lessonId", admin, h.DeleteLesson)
}

package handlers

import (
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentHandler struct {
	db *gorm.DB
}

func NewEnrollmentHandler(db *gorm.DB) *EnrollmentHandler {
	return &EnrollmentHandler{db: db}
}

func (h *EnrollmentHandler) EnrollCourse(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var course models.Course
	if err := h.db.First(&course, "id = ? AND is_published = ?", courseID, true).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Course not found")
	}

	var count int64
	h.db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count)
	if count > 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Already enrolled in this course")
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
	if err := h.db.Create(&enrollment).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to enroll")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, enrollment, "Enrolled successfully")
}

func (h *EnrollmentHandler) GetEnrolledCourses(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var enrollments []models.Enrollment
	if err := h.db.
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch enrollments")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, enrollments, "Enrolled courses fetched")
}

func (h *EnrollmentHandler) CheckEnrollment(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var enrollment models.Enrollment
	err = h.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{"is_enrolled": false}, "Not enrolled")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"is_enrolled": true,
		"progress":    enrollment.Progress,
	}, "Enrollment status fetched")
}

type UpdateProgressRequest struct {
	Progress float64 `json:"progress" validate:"gte=0,lte=100"`
}

func (h *EnrollmentHandler) UpdateProgress(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	result := h.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("progress", req.Progress)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update progress")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Enrollment not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Progress updated")
}

func (h *EnrollmentHandler) UnenrollCourse(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	result := h.db.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.Enrollment{})
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to unenroll")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Enrollment not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Unenrolled successfully")
}

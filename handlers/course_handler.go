package handlers

import (
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseHandler struct {
	db *gorm.DB
}

func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{db: db}
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Thumbnail   *string `json:"thumbnail"`
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
	}
	if err := h.db.Create(&course).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create course")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, course, "Course created successfully")
}

type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Thumbnail   *string `json:"thumbnail"`
	IsPublished *bool   `json:"is_published"`
}

func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Thumbnail != nil {
		updates["thumbnail"] = *req.Thumbnail
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if len(updates) == 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Nothing to update")
	}

	result := h.db.Model(&models.Course{}).Where("id = ?", courseID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update course")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Course not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Course updated successfully")
}

func (h *CourseHandler) GetAllCoursesAdmin(c *fiber.Ctx) error {
	var courses []models.Course
	if err := h.db.Preload("Lessons").Order("created_at desc").Find(&courses).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch courses")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, courses, "Courses fetched successfully")
}

func (h *CourseHandler) TogglePublishCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var course models.Course
	if err := h.db.First(&course, "id = ?", courseID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Course not found")
	}

	if err := h.db.Model(&course).Update("is_published", !course.IsPublished).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update course")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{"is_published": !course.IsPublished}, "Course publish state updated")
}

func (h *CourseHandler) GetPublishedCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := h.db.
		Where("is_published = ?", true).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch courses")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, courses, "Courses fetched successfully")
}

// GetCourseDetail returns the course with lesson metadata; video URLs are
// held back unless the caller is enrolled.
func (h *CourseHandler) GetCourseDetail(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var course models.Course
	if err := h.db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&course, "id = ? AND is_published = ?", courseID, true).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Course not found")
	}

	var enrolled int64
	h.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&enrolled)
	if enrolled == 0 {
		for i := range course.Lessons {
			course.Lessons[i].VideoURL = ""
		}
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"course":      course,
		"is_enrolled": enrolled > 0,
	}, "Course detail fetched")
}

func (h *CourseHandler) GetLessonVideo(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid lesson id")
	}

	var lesson models.Lesson
	if err := h.db.First(&lesson, "id = ?", lessonID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Lesson not found")
	}

	var enrolled int64
	h.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).
		Count(&enrolled)
	if enrolled == 0 {
		return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Enroll in the course to watch this lesson")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{"video_url": lesson.VideoURL}, "Lesson video fetched")
}

type AddLessonRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
	Position    int    `json:"position"`
}

func (h *CourseHandler) AddLesson(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var req AddLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var course models.Course
	if err := h.db.First(&course, "id = ?", courseID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Course not found")
	}

	lesson := models.Lesson{
		CourseID:    course.ID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Position:    req.Position,
	}
	if err := h.db.Create(&lesson).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to add lesson")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, lesson, "Lesson added successfully")
}

func (h *CourseHandler) GetCourseLessons(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid course id")
	}

	var lessons []models.Lesson
	if err := h.db.
		Where("course_id = ?", courseID).
		Order("position asc").
		Find(&lessons).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch lessons")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, lessons, "Lessons fetched successfully")
}

type UpdateLessonRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
	Duration    *int    `json:"duration"`
	Position    *int    `json:"position"`
}

func (h *CourseHandler) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid lesson id")
	}

	var req UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.VideoURL != nil {
		updates["video_url"] = *req.VideoURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Nothing to update")
	}

	result := h.db.Model(&models.Lesson{}).Where("id = ?", lessonID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update lesson")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Lesson not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Lesson updated successfully")
}

func (h *CourseHandler) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid lesson id")
	}

	result := h.db.Delete(&models.Lesson{}, "id = ?", lessonID)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to delete lesson")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Lesson not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Lesson deleted successfully")
}

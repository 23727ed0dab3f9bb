package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/notifications"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errRequestAlreadyHandled = errors.New("request already handled")

type CounselorHandler struct {
	db *gorm.DB
}

func NewCounselorHandler(db *gorm.DB) *CounselorHandler {
	return &CounselorHandler{db: db}
}

type CreateCounselorRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	EmploymentType string  `json:"employment_type"`
	Bio            *string `json:"bio"`
	ProfileImage   *string `json:"profile_image"`
}

func (h *CounselorHandler) CreateCounselor(c *fiber.Ctx) error {
	adminID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req CreateCounselorRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var count int64
	h.db.Model(&models.Counselor{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Counselor already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to hash password")
	}

	counselor := models.Counselor{
		Name:             req.Name,
		Email:            req.Email,
		Password:         string(hashedPassword),
		Specialization:   req.Specialization,
		Experience:       req.Experience,
		EmploymentType:   req.EmploymentType,
		Bio:              req.Bio,
		ProfileImage:     req.ProfileImage,
		CreatedByAdminID: &adminID,
	}
	if err := h.db.Create(&counselor).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create counselor")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, fiber.Map{"counselor_id": counselor.ID}, "Counselor created successfully")
}

func (h *CounselorHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var counselor models.Counselor
	if err := h.db.Where("email = ?", req.Email).First(&counselor).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(counselor.Password), []byte(req.Password)); err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid credentials")
	}

	t, err := signToken(counselor.ID.String(), models.RoleCounselor)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create token")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"token": t,
		"counselor": fiber.Map{
			"id":             counselor.ID,
			"name":           counselor.Name,
			"specialization": counselor.Specialization,
			"is_active":      counselor.IsActive,
		},
	}, "Login successful")
}

func (h *CounselorHandler) GetAllCounselors(c *fiber.Ctx) error {
	var counselors []models.Counselor
	if err := h.db.
		Omit("password").
		Order("created_at desc").
		Find(&counselors).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch counselors")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, counselors, "Counselors fetched successfully")
}

func (h *CounselorHandler) GetActiveCounselors(c *fiber.Ctx) error {
	var counselors []models.Counselor
	if err := h.db.
		Omit("password").
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&counselors).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch active counselors")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, counselors, "Active counselors fetched successfully")
}

type SetAvailabilityRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (h *CounselorHandler) SetAvailability(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req SetAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	result := h.db.Model(&models.Counselor{}).Where("id = ?", counselorID).Update("is_active", *req.IsActive)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update availability")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Counselor not found")
	}

	state := "Offline"
	if *req.IsActive {
		state = "Online"
	}
	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{"is_active": *req.IsActive}, "Counselor is now "+state)
}

func (h *CounselorHandler) GetProfile(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var counselor models.Counselor
	if err := h.db.First(&counselor, "id = ?", counselorID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Counselor not found")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, counselor, "Profile fetched successfully")
}

type UpdateCounselorProfileRequest struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	Experience     *int    `json:"experience"`
	EmploymentType *string `json:"employment_type"`
	Bio            *string `json:"bio"`
	ProfileImage   *string `json:"profile_image"`
}

func (h *CounselorHandler) UpdateProfile(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req UpdateCounselorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Specialization != nil {
		updates["specialization"] = *req.Specialization
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.EmploymentType != nil {
		updates["employment_type"] = *req.EmploymentType
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if len(updates) == 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Nothing to update")
	}

	result := h.db.Model(&models.Counselor{}).Where("id = ?", counselorID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update profile")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Counselor not found")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Profile updated successfully")
}

// GetRevenue returns the materialized counters next to totals recomputed
// from the COMPLETED meeting set, so counter drift is visible.
func (h *CounselorHandler) GetRevenue(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var counselor models.Counselor
	if err := h.db.First(&counselor, "id = ?", counselorID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Counselor not found")
	}

	var completedMeetings int64
	h.db.Model(&models.Meeting{}).
		Where("counselor_id = ? AND status = ?", counselorID, models.MeetingStatusCompleted).
		Count(&completedMeetings)

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"total_meetings":      counselor.TotalMeetings,
		"total_revenue":       counselor.TotalRevenue,
		"completed_meetings":  completedMeetings,
		"recomputed_revenue":  float64(completedMeetings) * revenuePerMeeting(),
	}, "Revenue fetched successfully")
}

type CreateConsultationRequestBody struct {
	CounselorID string `json:"counselor_id" validate:"required,uuid"`
	RequestType string `json:"request_type" validate:"required,oneof=INSTANT SCHEDULED"`
	ScheduledAt string `json:"scheduled_at"`
	Message     string `json:"message"`
}

// CreateConsultationRequest opens a PENDING request. A learner may hold at
// most one pending request per counselor at a time.
func (h *CounselorHandler) CreateConsultationRequest(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req CreateConsultationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}
	counselorID, _ := uuid.Parse(req.CounselorID)

	var counselor models.Counselor
	if err := h.db.First(&counselor, "id = ?", counselorID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Counselor not found")
	}

	// Point-in-time availability check, not a reservation.
	if req.RequestType == models.RequestTypeInstant && !counselor.IsActive {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Counselor is not active right now")
	}

	var scheduledAt *time.Time
	if req.RequestType == models.RequestTypeScheduled {
		if req.ScheduledAt == "" {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Scheduled time is required")
		}
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid scheduled time")
		}
		if !t.After(time.Now()) {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Scheduled time must be in the future")
		}
		scheduledAt = &t
	}

	var pending int64
	h.db.Model(&models.ConsultationRequest{}).
		Where("user_id = ? AND counselor_id = ? AND status = ?", userID, counselorID, models.RequestStatusPending).
		Count(&pending)
	if pending > 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "You already have a pending request with this counselor")
	}

	request := models.ConsultationRequest{
		UserID:      userID,
		CounselorID: counselorID,
		RequestType: req.RequestType,
		ScheduledAt: scheduledAt,
		Message:     req.Message,
		Status:      models.RequestStatusPending,
	}
	if err := h.db.Create(&request).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create request")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, fiber.Map{
		"request_id": request.ID,
		"status":     request.Status,
	}, "Consultation request created")
}

func (h *CounselorHandler) GetConsultationRequests(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	query := h.db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "first_name", "last_name", "email")
		}).
		Where("counselor_id = ? AND status = ?", counselorID, models.RequestStatusPending)

	if t := c.Query("type"); t == models.RequestTypeInstant || t == models.RequestTypeScheduled {
		query = query.Where("request_type = ?", t)
	}

	var requests []models.ConsultationRequest
	if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch requests")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, requests, "Pending requests fetched")
}

// AcceptConsultationRequest flips the request to ACCEPTED and creates its
// meeting as one unit. The PENDING check and the status write are a single
// conditional update so a concurrent accept/reject leaves exactly one
// winner.
func (h *CounselorHandler) AcceptConsultationRequest(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid request id")
	}

	var request models.ConsultationRequest
	if err := h.db.First(&request, "id = ?", requestID).Error; err != nil || request.CounselorID != counselorID {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Request not found")
	}

	var meeting models.Meeting
	err = h.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.ConsultationRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":       models.RequestStatusAccepted,
				"responded_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errRequestAlreadyHandled
		}

		meeting = models.Meeting{
			ConsultationRequestID: request.ID,
			CounselorID:           counselorID,
			UserID:                request.UserID,
			MeetingProvider:       "AGORA",
			MeetingRoomID:         meetingRoomID(request.ID),
			Status:                models.MeetingStatusWaiting,
			ScheduledTime:         request.ScheduledAt,
		}
		return tx.Create(&meeting).Error
	})
	if err != nil {
		if errors.Is(err, errRequestAlreadyHandled) {
			return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Request already handled")
		}
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to accept request")
	}

	go h.notifyRequestHandled(request, "accepted")

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"meeting_id":      meeting.ID,
		"meeting_room_id": meeting.MeetingRoomID,
	}, "Request accepted")
}

func (h *CounselorHandler) RejectConsultationRequest(c *fiber.Ctx) error {
	counselorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid request id")
	}

	var request models.ConsultationRequest
	if err := h.db.First(&request, "id = ?", requestID).Error; err != nil || request.CounselorID != counselorID {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Request not found")
	}

	result := h.db.Model(&models.ConsultationRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":       models.RequestStatusRejected,
			"responded_at": time.Now(),
		})
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to reject request")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Request already handled")
	}

	go h.notifyRequestHandled(request, "rejected")

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Request rejected")
}

func (h *CounselorHandler) notifyRequestHandled(request models.ConsultationRequest, outcome string) {
	var user models.User
	if err := h.db.First(&user, "id = ?", request.UserID).Error; err != nil {
		return
	}
	subject := fmt.Sprintf("Your consultation request was %s", outcome)
	notifications.SendEmail(user.FirstName, user.Email, subject,
		fmt.Sprintf("<p>Your consultation request has been %s.</p>", outcome))
}

// meetingRoomID derives the channel name from the owning request, so
// repeated token requests for one consultation always land in one room.
func meetingRoomID(requestID uuid.UUID) string {
	return fmt.Sprintf("skillup-%s", requestID)
}

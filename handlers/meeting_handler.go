package handlers

import (
	"errors"
	"strconv"
	"time"

	config "github.com/skillup-app/skillup_backend/configs"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/rtc"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultRevenuePerMeeting = 200

var (
	errMeetingNotOngoing = errors.New("meeting is not ongoing")
	errMeetingEnded      = errors.New("meeting has already ended")
)

func revenuePerMeeting() float64 {
	if v := config.Config("REVENUE_PER_MEETING"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			return rate
		}
	}
	return defaultRevenuePerMeeting
}

type MeetingHandler struct {
	db     *gorm.DB
	tokens rtc.TokenProvider
}

func NewMeetingHandler(db *gorm.DB, tokens rtc.TokenProvider) *MeetingHandler {
	return &MeetingHandler{db: db, tokens: tokens}
}

// isParticipant reports whether the caller belongs to the meeting at all.
func isParticipant(m *models.Meeting, callerID uuid.UUID) bool {
	return m.UserID == callerID || m.CounselorID == callerID
}

func (h *MeetingHandler) GetMyMeetings(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	// Older mobile builds send the camelCase spelling.
	userType := c.Query("user_type", c.Query("userType"))

	column := "user_id"
	if userType == "counselor" || middleware.CallerRole(c) == models.RoleCounselor {
		column = "counselor_id"
	}

	var meetings []models.Meeting
	if err := h.db.
		Where(column+" = ?", callerID).
		Order("created_at desc").
		Find(&meetings).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch meetings")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, meetings, "Meetings fetched")
}

func (h *MeetingHandler) GetMeetingByID(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	meetingID, err := uuid.Parse(c.Params("meetingId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid meeting id")
	}

	var meeting models.Meeting
	if err := h.db.First(&meeting, "id = ?", meetingID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Meeting not found")
	}
	if !isParticipant(&meeting, callerID) {
		return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Access denied")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, meeting, "Meeting fetched")
}

type JoinMeetingRequest struct {
	UserType string `json:"user_type" validate:"required,oneof=user counselor"`
}

// JoinMeeting records the caller's entry into the real-time session and,
// once both parties are in, moves the meeting to ONGOING. Every successful
// call mints a fresh credential so clients can reconnect after expiry by
// joining again.
func (h *MeetingHandler) JoinMeeting(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	meetingID, err := uuid.Parse(c.Params("meetingId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid meeting id")
	}

	var req JoinMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var meeting models.Meeting
	if err := h.db.First(&meeting, "id = ?", meetingID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Meeting not found")
	}

	switch req.UserType {
	case "counselor":
		if meeting.CounselorID != callerID {
			return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Access denied")
		}
	default:
		if meeting.UserID != callerID {
			return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Access denied")
		}
	}

	if meeting.Status == models.MeetingStatusCompleted || meeting.Status == models.MeetingStatusCancelled {
		return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Meeting has already ended")
	}

	// Advisory wait: no early entry to scheduled meetings.
	if meeting.ScheduledTime != nil && meeting.ScheduledTime.After(time.Now()) {
		waitSeconds := int(time.Until(*meeting.ScheduledTime).Seconds())
		return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
			"can_join":  false,
			"wait_time": waitSeconds,
		}, "Meeting has not started yet")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var m models.Meeting
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", meetingID).Error; err != nil {
			return err
		}

		// Terminal states are re-checked on the locked row: the meeting may
		// have ended between the pre-read and the lock, and COMPLETED must
		// never flow back to ONGOING.
		if m.Status == models.MeetingStatusCompleted || m.Status == models.MeetingStatusCancelled {
			return errMeetingEnded
		}

		now := time.Now()
		if req.UserType == "counselor" {
			if !m.CounselorJoined {
				m.CounselorJoined = true
				m.CounselorJoinedAt = &now
			}
		} else {
			if !m.UserJoined {
				m.UserJoined = true
				m.UserJoinedAt = &now
			}
		}

		if m.Status == models.MeetingStatusWaiting && m.UserJoined && m.CounselorJoined {
			m.Status = models.MeetingStatusOngoing
			m.StartTime = &now
		}

		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		meeting = m
		return nil
	})
	if err != nil {
		if errors.Is(err, errMeetingEnded) {
			return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Meeting has already ended")
		}
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to join meeting")
	}

	token, err := h.tokens.RtcToken(meeting.MeetingRoomID, 0)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to generate token")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"can_join":       true,
		"token":          token,
		"app_id":         h.tokens.AppID(),
		"channel_name":   meeting.MeetingRoomID,
		"meeting_status": meeting.Status,
	}, "Joined meeting")
}

type MeetingTokenRequest struct {
	MeetingID string `json:"meeting_id"`
}

// GenerateToken is the legacy credential refresh path: same minting as
// join, without touching join flags or meeting state.
func (h *MeetingHandler) GenerateToken(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	raw := c.Params("meetingId")
	if raw == "" {
		var req MeetingTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
		}
		raw = req.MeetingID
	}
	meetingID, err := uuid.Parse(raw)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid meeting id")
	}

	var meeting models.Meeting
	if err := h.db.First(&meeting, "id = ?", meetingID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Meeting not found")
	}
	if !isParticipant(&meeting, callerID) {
		return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Access denied")
	}

	token, err := h.tokens.RtcToken(meeting.MeetingRoomID, 0)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to generate token")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"token":        token,
		"app_id":       h.tokens.AppID(),
		"channel_name": meeting.MeetingRoomID,
	}, "Token generated")
}

type EndMeetingRequest struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
}

// EndMeeting completes an ONGOING meeting: stamps end time and duration,
// credits the counselor's counters once, and closes the owning request.
// The ONGOING precondition is a conditional update, so a second call (or a
// retried one) conflicts instead of double-crediting revenue.
func (h *MeetingHandler) EndMeeting(c *fiber.Ctx) error {
	callerID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req EndMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}
	meetingID, _ := uuid.Parse(req.MeetingID)

	var meeting models.Meeting
	if err := h.db.First(&meeting, "id = ?", meetingID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Meeting not found")
	}
	if !isParticipant(&meeting, callerID) {
		return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Access denied")
	}

	endTime := time.Now()
	startTime := meeting.CreatedAt
	if meeting.StartTime != nil {
		startTime = *meeting.StartTime
	}
	durationSeconds := int(endTime.Sub(startTime).Seconds())
	rate := revenuePerMeeting()

	err = h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Meeting{}).
			Where("id = ? AND status = ?", meetingID, models.MeetingStatusOngoing).
			Updates(map[string]interface{}{
				"status":   models.MeetingStatusCompleted,
				"end_time": endTime,
				"duration": durationSeconds,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errMeetingNotOngoing
		}

		if err := tx.Model(&models.Counselor{}).
			Where("id = ?", meeting.CounselorID).
			Updates(map[string]interface{}{
				"total_meetings": gorm.Expr("total_meetings + ?", 1),
				"total_revenue":  gorm.Expr("total_revenue + ?", rate),
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.ConsultationRequest{}).
			Where("id = ?", meeting.ConsultationRequestID).
			Update("status", models.RequestStatusCompleted).Error
	})
	if err != nil {
		if errors.Is(err, errMeetingNotOngoing) {
			return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Meeting already ended")
		}
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to end meeting")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"duration_seconds": durationSeconds,
		"revenue_earned":   rate,
	}, "Meeting ended successfully")
}

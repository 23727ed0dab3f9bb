package handlers

import (
	"testing"
	"time"

	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type meetingFixture struct {
	user      models.User
	counselor models.Counselor
	request   models.ConsultationRequest
	meeting   models.Meeting
}

func seedMeeting(t *testing.T, db *gorm.DB, status string, scheduled *time.Time) meetingFixture {
	t.Helper()

	user := seedUser(t, db, "learner1")
	counselor := seedCounselor(t, db, true)
	request := models.ConsultationRequest{
		UserID:      user.ID,
		CounselorID: counselor.ID,
		RequestType: models.RequestTypeInstant,
		Status:      models.RequestStatusAccepted,
	}
	require.NoError(t, db.Create(&request).Error)

	meeting := models.Meeting{
		ConsultationRequestID: request.ID,
		CounselorID:           counselor.ID,
		UserID:                user.ID,
		MeetingProvider:       "AGORA",
		MeetingRoomID:         "skillup-" + request.ID.String(),
		Status:                status,
		ScheduledTime:         scheduled,
	}
	if status == models.MeetingStatusOngoing {
		now := time.Now().Add(-5 * time.Minute)
		meeting.UserJoined = true
		meeting.CounselorJoined = true
		meeting.UserJoinedAt = &now
		meeting.CounselorJoinedAt = &now
		meeting.StartTime = &now
	}
	require.NoError(t, db.Create(&meeting).Error)

	return meetingFixture{user: user, counselor: counselor, request: request, meeting: meeting}
}

func TestJoinScheduledMeetingBeforeStart(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	at := time.Now().Add(30 * time.Minute)
	fx := seedMeeting(t, db, models.MeetingStatusWaiting, &at)
	token := tokenFor(t, fx.user.ID, models.RoleUser)

	status, env := doRequest(t, app, fiber.MethodPost,
		"/api/v1/admin/counselor/meetings/"+fx.meeting.ID.String()+"/join", token,
		fiber.Map{"user_type": "user"})
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		CanJoin  bool `json:"can_join"`
		WaitTime int  `json:"wait_time"`
	}
	decodeData(t, env, &result)
	assert.False(t, result.CanJoin)
	assert.Greater(t, result.WaitTime, 0)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, "id = ?", fx.meeting.ID).Error)
	assert.False(t, stored.UserJoined)
	assert.Equal(t, models.MeetingStatusWaiting, stored.Status)
}

func TestJoinBothPartiesStartsMeeting(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusWaiting, nil)
	userToken := tokenFor(t, fx.user.ID, models.RoleUser)
	counselorToken := tokenFor(t, fx.counselor.ID, models.RoleCounselor)
	path := "/api/v1/admin/counselor/meetings/" + fx.meeting.ID.String() + "/join"

	status, env := doRequest(t, app, fiber.MethodPost, path, userToken, fiber.Map{"user_type": "user"})
	require.Equal(t, fiber.StatusOK, status)

	var joined struct {
		CanJoin       bool   `json:"can_join"`
		Token         string `json:"token"`
		AppID         string `json:"app_id"`
		ChannelName   string `json:"channel_name"`
		MeetingStatus string `json:"meeting_status"`
	}
	decodeData(t, env, &joined)
	assert.True(t, joined.CanJoin)
	assert.Equal(t, "rtc-token-"+fx.meeting.MeetingRoomID, joined.Token)
	assert.Equal(t, "test-app-id", joined.AppID)
	assert.Equal(t, fx.meeting.MeetingRoomID, joined.ChannelName)
	assert.Equal(t, models.MeetingStatusWaiting, joined.MeetingStatus)

	status, env = doRequest(t, app, fiber.MethodPost, path, counselorToken, fiber.Map{"user_type": "counselor"})
	require.Equal(t, fiber.StatusOK, status)
	decodeData(t, env, &joined)
	assert.Equal(t, models.MeetingStatusOngoing, joined.MeetingStatus)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, "id = ?", fx.meeting.ID).Error)
	assert.True(t, stored.UserJoined)
	assert.True(t, stored.CounselorJoined)
	require.NotNil(t, stored.StartTime)
	firstStartTime := stored.StartTime
	firstJoinedAt := stored.UserJoinedAt
	require.NotNil(t, firstJoinedAt)

	// Rejoining mints a fresh credential but never rewinds join state.
	status, env = doRequest(t, app, fiber.MethodPost, path, userToken, fiber.Map{"user_type": "user"})
	require.Equal(t, fiber.StatusOK, status)
	decodeData(t, env, &joined)
	assert.True(t, joined.CanJoin)
	assert.Equal(t, models.MeetingStatusOngoing, joined.MeetingStatus)

	require.NoError(t, db.First(&stored, "id = ?", fx.meeting.ID).Error)
	assert.Equal(t, firstJoinedAt.Unix(), stored.UserJoinedAt.Unix())
	assert.Equal(t, firstStartTime.Unix(), stored.StartTime.Unix())
}

func TestJoinNeverRevivesEndedMeeting(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusOngoing, nil)
	userToken := tokenFor(t, fx.user.ID, models.RoleUser)
	counselorToken := tokenFor(t, fx.counselor.ID, models.RoleCounselor)

	status, _ := doRequest(t, app, fiber.MethodPost, "/api/v1/admin/counselor/meetings/end", counselorToken,
		fiber.Map{"meeting_id": fx.meeting.ID.String()})
	require.Equal(t, fiber.StatusOK, status)

	var ended models.Meeting
	require.NoError(t, db.First(&ended, "id = ?", fx.meeting.ID).Error)
	require.Equal(t, models.MeetingStatusCompleted, ended.Status)
	endedStart := ended.StartTime

	// Both parties already hold joined flags; a late join must conflict
	// instead of flipping the completed meeting back to ONGOING.
	status, _ = doRequest(t, app, fiber.MethodPost,
		"/api/v1/admin/counselor/meetings/"+fx.meeting.ID.String()+"/join", userToken,
		fiber.Map{"user_type": "user"})
	assert.Equal(t, fiber.StatusConflict, status)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, "id = ?", fx.meeting.ID).Error)
	assert.Equal(t, models.MeetingStatusCompleted, stored.Status)
	assert.Equal(t, endedStart.Unix(), stored.StartTime.Unix())

	// With the meeting still COMPLETED, a retried end cannot credit again.
	status, _ = doRequest(t, app, fiber.MethodPost, "/api/v1/admin/counselor/meetings/end", counselorToken,
		fiber.Map{"meeting_id": fx.meeting.ID.String()})
	assert.Equal(t, fiber.StatusConflict, status)

	var counselor models.Counselor
	require.NoError(t, db.First(&counselor, "id = ?", fx.counselor.ID).Error)
	assert.Equal(t, 1, counselor.TotalMeetings)
	assert.Equal(t, float64(200), counselor.TotalRevenue)
}

func TestJoinMeetingRoleMismatch(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusWaiting, nil)
	counselorToken := tokenFor(t, fx.counselor.ID, models.RoleCounselor)

	status, _ := doRequest(t, app, fiber.MethodPost,
		"/api/v1/admin/counselor/meetings/"+fx.meeting.ID.String()+"/join", counselorToken,
		fiber.Map{"user_type": "user"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestJoinCompletedMeetingConflicts(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusCompleted, nil)
	token := tokenFor(t, fx.user.ID, models.RoleUser)

	status, _ := doRequest(t, app, fiber.MethodPost,
		"/api/v1/admin/counselor/meetings/"+fx.meeting.ID.String()+"/join", token,
		fiber.Map{"user_type": "user"})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestEndMeetingCreditsCounselorOnce(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusOngoing, nil)
	token := tokenFor(t, fx.counselor.ID, models.RoleCounselor)

	body := fiber.Map{"meeting_id": fx.meeting.ID.String()}

	status, env := doRequest(t, app, fiber.MethodPost, "/api/v1/admin/counselor/meetings/end", token, body)
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		DurationSeconds int     `json:"duration_seconds"`
		RevenueEarned   float64 `json:"revenue_earned"`
	}
	decodeData(t, env, &result)
	assert.Greater(t, result.DurationSeconds, 0)
	assert.Equal(t, float64(200), result.RevenueEarned)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, "id = ?", fx.meeting.ID).Error)
	assert.Equal(t, models.MeetingStatusCompleted, stored.Status)
	require.NotNil(t, stored.EndTime)
	require.NotNil(t, stored.Duration)

	var counselor models.Counselor
	require.NoError(t, db.First(&counselor, "id = ?", fx.counselor.ID).Error)
	assert.Equal(t, 1, counselor.TotalMeetings)
	assert.Equal(t, float64(200), counselor.TotalRevenue)

	var request models.ConsultationRequest
	require.NoError(t, db.First(&request, "id = ?", fx.request.ID).Error)
	assert.Equal(t, models.RequestStatusCompleted, request.Status)

	status, env = doRequest(t, app, fiber.MethodPost, "/api/v1/admin/counselor/meetings/end", token, body)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, env.Message, "already ended")

	require.NoError(t, db.First(&counselor, "id = ?", fx.counselor.ID).Error)
	assert.Equal(t, 1, counselor.TotalMeetings)
	assert.Equal(t, float64(200), counselor.TotalRevenue)
}

func TestEndMeetingRequiresParticipant(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusOngoing, nil)

	outsider := seedUser(t, db, "outsider")
	token := tokenFor(t, outsider.ID, models.RoleUser)

	status, _ := doRequest(t, app, fiber.MethodPost, "/api/v1/admin/counselor/meetings/end", token,
		fiber.Map{"meeting_id": fx.meeting.ID.String()})
	assert.Equal(t, fiber.StatusForbidden, status)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, "id = ?", fx.meeting.ID).Error)
	assert.Equal(t, models.MeetingStatusOngoing, stored.Status)
}

func TestGenerateTokenForParticipant(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusOngoing, nil)
	token := tokenFor(t, fx.user.ID, models.RoleUser)

	status, env := doRequest(t, app, fiber.MethodPost,
		"/api/v1/admin/counselor/meetings/"+fx.meeting.ID.String()+"/token", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var result struct {
		Token       string `json:"token"`
		AppID       string `json:"app_id"`
		ChannelName string `json:"channel_name"`
	}
	decodeData(t, env, &result)
	assert.Equal(t, "rtc-token-"+fx.meeting.MeetingRoomID, result.Token)
	assert.Equal(t, fx.meeting.MeetingRoomID, result.ChannelName)
}

func TestGetMyMeetingsSplitsByRole(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	fx := seedMeeting(t, db, models.MeetingStatusWaiting, nil)

	userToken := tokenFor(t, fx.user.ID, models.RoleUser)
	counselorToken := tokenFor(t, fx.counselor.ID, models.RoleCounselor)

	status, env := doRequest(t, app, fiber.MethodGet, "/api/v1/admin/counselor/meetings", userToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var mine []models.Meeting
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.meeting.ID, mine[0].ID)

	status, env = doRequest(t, app, fiber.MethodGet, "/api/v1/admin/counselor/meetings", counselorToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.meeting.ID, mine[0].ID)

	// Both query spellings switch the lookup column the same way.
	for _, q := range []string{"user_type=counselor", "userType=counselor"} {
		status, env = doRequest(t, app, fiber.MethodGet, "/api/v1/admin/counselor/meetings?"+q, userToken, nil)
		require.Equal(t, fiber.StatusOK, status)
		decodeData(t, env, &mine)
		assert.Empty(t, mine, q)
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubTokenProvider struct{}

func (stubTokenProvider) RtcToken(channelName string, uid uint32) (string, error) {
	return "rtc-token-" + channelName, nil
}

func (stubTokenProvider) AppID() string { return "test-app-id" }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tutor{},
		&models.Counselor{},
		&models.Contest{},
		&models.ContestQuestion{},
		&models.ContestAttempt{},
		&models.ConsultationRequest{},
		&models.Meeting{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.Resource{},
	))
	return db
}

// newTestApp mirrors the production route table for the surfaces under
// test, with a stubbed credential provider behind the meeting handler.
func newTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()

	ah := NewAuthHandler(db)
	auth := app.Group("/api/v1/user/auth")
	auth.Post("/register", ah.Register)
	auth.Post("/login", ah.Login)
	auth.Post("/admin/login", ah.AdminLogin)
	auth.Get("/profile", middleware.Protected(), middleware.ActiveAccount(db), ah.GetProfile)
	auth.Post("/update-profile", middleware.Protected(), middleware.ActiveAccount(db), ah.UpdateProfile)

	ch := NewContestHandler(db)
	contest := app.Group("/api/v1/admin/contest", middleware.Protected(), middleware.ActiveAccount(db))
	admin := middleware.AdminRequired()
	learner := middleware.RoleRequired(models.RoleUser)

	contest.Get("/published", learner, ch.GetPublishedContests)
	contest.Get("/:contestId/details", learner, ch.GetContestDetails)
	contest.Post("/:contestId/start", learner, ch.StartContest)
	contest.Post("/:contestId/submit", learner, ch.SubmitContest)
	contest.Get("/:contestId/leaderboard", learner, ch.GetLeaderboard)
	contest.Post("/", admin, ch.CreateContest)
	contest.Get("/", admin, ch.GetAllContestsAdmin)
	contest.Put("/:contestId/publish", admin, ch.PublishContest)
	contest.Post("/:contestId/questions", admin, ch.AddQuestion)
	contest.Get("/:contestId", admin, ch.GetContestByIDAdmin)
	contest.Put("/:contestId", admin, ch.UpdateContest)

	coh := NewCounselorHandler(db)
	mh := NewMeetingHandler(db, stubTokenProvider{})
	counselor := app.Group("/api/v1/admin/counselor", middleware.Protected(), middleware.ActiveAccount(db))
	counselorOnly := middleware.RoleRequired(models.RoleCounselor)
	userOnly := learner
	participants := middleware.RoleRequired(models.RoleUser, models.RoleCounselor)

	counselor.Post("/", admin, coh.CreateCounselor)
	counselor.Get("/active", userOnly, coh.GetActiveCounselors)
	counselor.Post("/request", userOnly, coh.CreateConsultationRequest)
	counselor.Get("/requests", counselorOnly, coh.GetConsultationRequests)
	counselor.Post("/requests/:id/accept", counselorOnly, coh.AcceptConsultationRequest)
	counselor.Post("/requests/:id/reject", counselorOnly, coh.RejectConsultationRequest)
	counselor.Put("/availability", counselorOnly, coh.SetAvailability)
	counselor.Get("/revenue", counselorOnly, coh.GetRevenue)
	counselor.Get("/meetings", participants, mh.GetMyMeetings)
	counselor.Get("/meetings/:meetingId", participants, mh.GetMeetingByID)
	counselor.Post("/meetings/:meetingId/join", participants, mh.JoinMeeting)
	counselor.Post("/meetings/:meetingId/token", participants, mh.GenerateToken)
	counselor.Post("/meetings/end", participants, mh.EndMeeting)

	cuh := NewCourseHandler(db)
	eh := NewEnrollmentHandler(db)
	courses := app.Group("/api/v1/admin/courses", middleware.Protected(), middleware.ActiveAccount(db))
	courses.Get("/courses", learner, cuh.GetPublishedCourses)
	courses.Get("/courses/:courseId", learner, cuh.GetCourseDetail)
	courses.Get("/lessons/:lessonId", learner, cuh.GetLessonVideo)
	courses.Get("/enrolled", learner, eh.GetEnrolledCourses)
	courses.Post("/:courseId/enroll", learner, eh.EnrollCourse)
	courses.Get("/:courseId/enrollment-status", learner, eh.CheckEnrollment)
	courses.Put("/:courseId/progress", learner, eh.UpdateProgress)
	courses.Delete("/:courseId/unenroll", learner, eh.UnenrollCourse)
	courses.Get("/", admin, cuh.GetAllCoursesAdmin)
	courses.Post("/", admin, cuh.CreateCourse)
	courses.Patch("/:courseId", admin, cuh.UpdateCourse)
	courses.Put("/:courseId/publish", admin, cuh.TogglePublishCourse)
	courses.Post("/:courseId/lessons", admin, cuh.AddLesson)

	rh := NewResourceHandler(db)
	resource := app.Group("/api/v1/resource", middleware.Protected(), middleware.ActiveAccount(db),
		middleware.RoleRequired(models.RoleAdmin, models.RoleSuperAdmin, models.RoleUser))
	resource.Get("/", rh.GetAllResources)
	resource.Get("/stats", rh.GetResourceStats)
	resource.Get("/:id", rh.GetResourceByID)
	resource.Post("/", rh.CreateResource)
	resource.Post("/:id/download", rh.IncrementDownload)

	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		Password:  hashPassword(t, "password123"),
		Role:      models.RoleUser,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	admin := models.User{
		Username:  "admin",
		FirstName: "Admin",
		Email:     "admin@example.com",
		Password:  hashPassword(t, "password123"),
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func seedCounselor(t *testing.T, db *gorm.DB, active bool) models.Counselor {
	t.Helper()
	counselor := models.Counselor{
		Name:           "Jane Counselor",
		Email:          uuid.NewString() + "@example.com",
		Password:       hashPassword(t, "password123"),
		Specialization: "Career Guidance",
		IsActive:       active,
	}
	require.NoError(t, db.Create(&counselor).Error)
	return counselor
}

func tokenFor(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	token, err := signToken(id.String(), role)
	require.NoError(t, err)
	return token
}

package handlers

import (
	"errors"
	"time"

	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errAlreadySubmitted = errors.New("contest already submitted")

type ContestHandler struct {
	db *gorm.DB
}

func NewContestHandler(db *gorm.DB) *ContestHandler {
	return &ContestHandler{db: db}
}

type CreateContestRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	StartTime       string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	TotalMarks      int    `json:"total_marks"`
}

func (h *ContestHandler) CreateContest(c *fiber.Ctx) error {
	var req CreateContestRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)
	if !endTime.After(startTime) {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "End time must be after start time")
	}

	contest := models.Contest{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		StartTime:       startTime,
		EndTime:         endTime,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
		IsActive:        true,
		IsPublished:     false,
	}
	if err := h.db.Create(&contest).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create contest")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, contest, "Contest created successfully")
}

type UpdateContestRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	TotalMarks      *int    `json:"total_marks"`
	IsActive        *bool   `json:"is_active"`
	IsPublished     *bool   `json:"is_published"`
}

// UpdateContest writes only the keys present in the request body.
func (h *ContestHandler) UpdateContest(c *fiber.Ctx) error {
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var req UpdateContestRequest
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
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid start time")
		}
		updates["start_time"] = t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid end time")
		}
		updates["end_time"] = t
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.TotalMarks != nil {
		updates["total_marks"] = *req.TotalMarks
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if len(updates) == 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Nothing to update")
	}

	result := h.db.Model(&models.Contest{}).Where("id = ?", contestID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update contest")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest not found")
	}

	var contest models.Contest
	h.db.First(&contest, "id = ?", contestID)
	return utils.SendResponse(c, fiber.StatusOK, true, contest, "Contest updated successfully")
}

func (h *ContestHandler) GetAllContestsAdmin(c *fiber.Ctx) error {
	var contests []models.Contest
	if err := h.db.Preload("Questions").Order("created_at desc").Find(&contests).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch contests")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, contests, "Contests fetched successfully")
}

func (h *ContestHandler) GetContestByIDAdmin(c *fiber.Ctx) error {
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var contest models.Contest
	if err := h.db.Preload("Questions").First(&contest, "id = ?", contestID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest not found")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, contest, "Contest fetched successfully")
}

func (h *ContestHandler) PublishContest(c *fiber.Ctx) error {
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	result := h.db.Model(&models.Contest{}).Where("id = ?", contestID).Update("is_published", true)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to publish contest")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest not found")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Contest published successfully")
}

type AddQuestionRequest struct {
	Question      string `json:"question" validate:"required"`
	OptionA       string `json:"option_a" validate:"required"`
	OptionB       string `json:"option_b" validate:"required"`
	OptionC       string `json:"option_c" validate:"required"`
	OptionD       string `json:"option_d" validate:"required"`
	CorrectOption string `json:"correct_option" validate:"required"`
	Marks         int    `json:"marks" validate:"required,gt=0"`
}

func (h *ContestHandler) AddQuestion(c *fiber.Ctx) error {
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var req AddQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	// The correct answer must literally be one of the four options,
	// otherwise no submission could ever score this question.
	if req.CorrectOption != req.OptionA && req.CorrectOption != req.OptionB &&
		req.CorrectOption != req.OptionC && req.CorrectOption != req.OptionD {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Correct option must match one of the four options")
	}

	var contest models.Contest
	if err := h.db.First(&contest, "id = ?", contestID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest not found")
	}

	question := models.ContestQuestion{
		ContestID:     contest.ID,
		QuestionText:  req.Question,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Marks:         req.Marks,
	}
	if err := h.db.Create(&question).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to add question")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, question, "Question added successfully")
}

type contestWithAttempt struct {
	models.Contest
	HasAttempted bool                   `json:"has_attempted"`
	UserAttempt  *models.ContestAttempt `json:"user_attempt"`
}

// GetPublishedContests lists live contests for learners, each annotated
// with the caller's submitted attempt when one exists.
func (h *ContestHandler) GetPublishedContests(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var contests []models.Contest
	if err := h.db.
		Where("is_published = ? AND end_time > ?", true, time.Now()).
		Order("start_time asc").
		Find(&contests).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch contests")
	}

	contestIDs := make([]uuid.UUID, len(contests))
	for i, ct := range contests {
		contestIDs[i] = ct.ID
	}

	var attempts []models.ContestAttempt
	if len(contestIDs) > 0 {
		h.db.
			Where("user_id = ? AND contest_id IN ? AND submitted_at IS NOT NULL", userID, contestIDs).
			Find(&attempts)
	}
	attemptByContest := make(map[uuid.UUID]*models.ContestAttempt, len(attempts))
	for i := range attempts {
		attemptByContest[attempts[i].ContestID] = &attempts[i]
	}

	annotated := make([]contestWithAttempt, len(contests))
	for i, ct := range contests {
		attempt := attemptByContest[ct.ID]
		annotated[i] = contestWithAttempt{
			Contest:      ct,
			HasAttempted: attempt != nil,
			UserAttempt:  attempt,
		}
	}

	return utils.SendResponse(c, fiber.StatusOK, true, annotated, "Live contests fetched")
}

// GetContestDetails returns the contest with its questions, with correct
// answers stripped. Answers never cross the trust boundary pre-submission.
func (h *ContestHandler) GetContestDetails(c *fiber.Ctx) error {
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var contest models.Contest
	if err := h.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "contest_id", "question_text", "option_a", "option_b", "option_c", "option_d", "marks", "created_at")
		}).
		First(&contest, "id = ?", contestID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, contest, "Contest details fetched")
}

// StartContest opens an attempt. A learner holds at most one unsubmitted
// attempt per contest; starting again returns the open one, and a contest
// that was already submitted cannot be restarted.
func (h *ContestHandler) StartContest(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var contest models.Contest
	if err := h.db.First(&contest, "id = ? AND is_published = ?", contestID, true).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest not found")
	}

	var open models.ContestAttempt
	if err := h.db.
		Where("contest_id = ? AND user_id = ? AND submitted_at IS NULL", contestID, userID).
		Order("started_at desc").
		First(&open).Error; err == nil {
		return utils.SendResponse(c, fiber.StatusOK, true, open, "Contest already in progress")
	}

	var submitted int64
	h.db.Model(&models.ContestAttempt{}).
		Where("contest_id = ? AND user_id = ? AND submitted_at IS NOT NULL", contestID, userID).
		Count(&submitted)
	if submitted > 0 {
		return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Contest already submitted")
	}

	attempt := models.ContestAttempt{
		ContestID: contest.ID,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if err := h.db.Create(&attempt).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to start contest")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, attempt, "Contest started")
}

type SubmitContestRequest struct {
	Answers []struct {
		QuestionID     string `json:"question_id" validate:"required,uuid"`
		SelectedOption string `json:"selected_option" validate:"required"`
	} `json:"answers" validate:"required"`
	TimeTaken int `json:"time_taken"`
}

// SubmitContest scores the submission against the contest's question set
// and completes the learner's open attempt. Score = sum of marks of the
// questions whose selected option equals the correct one; wrong and
// missing answers contribute zero.
func (h *ContestHandler) SubmitContest(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var req SubmitContestRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var questions []models.ContestQuestion
	if err := h.db.
		Select("id", "correct_option", "marks").
		Where("contest_id = ?", contestID).
		Find(&questions).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch questions")
	}
	if len(questions) == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Contest has no questions")
	}

	selectedByQuestion := make(map[uuid.UUID]string, len(req.Answers))
	for _, a := range req.Answers {
		qid, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid question id in answers")
		}
		selectedByQuestion[qid] = a.SelectedOption
	}

	totalScore := 0
	for _, q := range questions {
		if selected, ok := selectedByQuestion[q.ID]; ok && selected == q.CorrectOption {
			totalScore += q.Marks
		}
	}

	now := time.Now()
	timeTaken := req.TimeTaken
	score := totalScore

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var attempt models.ContestAttempt
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("contest_id = ? AND user_id = ? AND submitted_at IS NULL", contestID, userID).
			Order("started_at desc").
			First(&attempt).Error

		switch {
		case err == nil:
			return tx.Model(&attempt).Updates(map[string]interface{}{
				"submitted_at": now,
				"time_taken":   timeTaken,
				"score":        score,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No open attempt: the client may have skipped start. Allow
			// one implicit attempt but never a second scored one.
			var submitted int64
			if err := tx.Model(&models.ContestAttempt{}).
				Where("contest_id = ? AND user_id = ? AND submitted_at IS NOT NULL", contestID, userID).
				Count(&submitted).Error; err != nil {
				return err
			}
			if submitted > 0 {
				return errAlreadySubmitted
			}
			return tx.Create(&models.ContestAttempt{
				ContestID:   contestID,
				UserID:      userID,
				StartedAt:   now,
				SubmittedAt: &now,
				TimeTaken:   &timeTaken,
				Score:       &score,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, errAlreadySubmitted) {
			return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Contest already submitted")
		}
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to submit contest")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{"score": totalScore}, "Contest submitted successfully")
}

// GetLeaderboard ranks attempts by score, faster solver first on ties.
// Unscored (in progress) attempts always trail the scored ones.
func (h *ContestHandler) GetLeaderboard(c *fiber.Ctx) error {
	contestID, err := uuid.Parse(c.Params("contestId"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid contest id")
	}

	var attempts []models.ContestAttempt
	if err := h.db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "first_name", "last_name", "email", "profile_image")
		}).
		Where("contest_id = ?", contestID).
		Order("score DESC NULLS LAST").
		Order("time_taken ASC NULLS LAST").
		Find(&attempts).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch leaderboard")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, attempts, "Leaderboard fetched")
}

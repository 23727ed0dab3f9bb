package handlers

import (
	"errors"

	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TutorHandler struct {
	db *gorm.DB
}

func NewTutorHandler(db *gorm.DB) *TutorHandler {
	return &TutorHandler{db: db}
}

type TutorSignupRequest struct {
	Name      string  `json:"name" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Expertise string  `json:"expertise"`
	Bio       *string `json:"bio"`
}

func (h *TutorHandler) Signup(c *fiber.Ctx) error {
	var req TutorSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var count int64
	h.db.Model(&models.Tutor{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return utils.SendResponse(c, fiber.StatusConflict, false, nil, "Tutor already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to hash password")
	}

	tutor := models.Tutor{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Expertise: req.Expertise,
		Bio:       req.Bio,
		IsActive:  true,
	}
	if err := h.db.Create(&tutor).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create tutor")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, fiber.Map{"tutor_id": tutor.ID}, "Tutor registered successfully")
}

func (h *TutorHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var tutor models.Tutor
	if err := h.db.Where("email = ?", req.Email).First(&tutor).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid credentials")
	}
	if !tutor.IsActive {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(tutor.Password), []byte(req.Password)); err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid credentials")
	}

	t, err := signToken(tutor.ID.String(), models.RoleTutor)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create token")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"token": t,
		"tutor": fiber.Map{"id": tutor.ID, "name": tutor.Name, "email": tutor.Email},
	}, "Login successful")
}

func (h *TutorHandler) GetProfile(c *fiber.Ctx) error {
	tutorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var tutor models.Tutor
	if err := h.db.First(&tutor, "id = ?", tutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Tutor not found")
		}
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch profile")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, tutor, "Profile fetched successfully")
}

type UpdateTutorProfileRequest struct {
	Name         *string `json:"name"`
	Expertise    *string `json:"expertise"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

func (h *TutorHandler) UpdateProfile(c *fiber.Ctx) error {
	tutorID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req UpdateTutorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Expertise != nil {
		updates["expertise"] = *req.Expertise
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

	result := h.db.Model(&models.Tutor{}).Where("id = ?", tutorID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update profile")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Tutor not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Profile updated successfully")
}

package handlers

import (
	"errors"
	"strings"
	"time"

	config "github.com/skillup-app/skillup_backend/configs"
	"github.com/skillup-app/skillup_backend/middleware"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/notifications"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

// signToken issues the session token. Role names are normalized to
// lowercase at issue time so the gate never has to guess about casing.
func signToken(accountID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": accountID,
		"role":    strings.ToLower(role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ? OR username = ?", req.Email, req.Username).Count(&count)
	if count > 0 {
		return utils.SendResponse(c, fiber.StatusConflict, false, nil, "User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to hash password")
	}

	user := models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		IsActive:  true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create user")
	}

	go notifications.SendEmail(user.FirstName, user.Email, "Welcome to SkillUp!", "<h1>Welcome!</h1><p>Your account has been created.</p>")

	return utils.SendResponse(c, fiber.StatusCreated, true, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}, "User registered successfully")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid email or password")
	}
	if !user.IsActive || user.IsDeleted {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid email or password")
	}

	t, err := signToken(user.ID.String(), user.Role)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create token")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"token": t,
		"user": fiber.Map{
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
		},
	}, "Login successful")
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid credentials")
	}

	role := strings.ToLower(user.Role)
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Not an admin account")
	}
	if !user.IsActive || user.IsDeleted {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid credentials")
	}

	t, err := signToken(user.ID.String(), role)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create token")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{"token": t}, "Login successful")
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "User not found")
		}
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch profile")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, user, "Profile fetched successfully")
}

type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Username     *string `json:"username"`
	ProfileImage *string `json:"profile_image"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.CallerID(c)
	if err != nil {
		return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if len(updates) == 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Nothing to update")
	}

	result := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update profile")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "User not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Profile updated successfully")
}

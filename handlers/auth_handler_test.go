package handlers

import (
	"testing"

	"github.com/skillup-app/skillup_backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)

	status, env := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/register", "", fiber.Map{
		"username":   "amina",
		"first_name": "Amina",
		"email":      "amina@example.com",
		"password":   "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, env.Success)

	status, env = doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/login", "", fiber.Map{
		"email":    "amina@example.com",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status)

	var session struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, env, &session)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, models.RoleUser, session.User.Role)

	status, env = doRequest(t, app, fiber.MethodGet, "/api/v1/user/auth/profile", session.Token, nil)
	require.Equal(t, fiber.StatusOK, status)

	var profile models.User
	decodeData(t, env, &profile)
	assert.Equal(t, "amina", profile.Username)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	existing := seedUser(t, db, "amina")

	status, env := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/register", "", fiber.Map{
		"username":   existing.Username,
		"first_name": "Other",
		"email":      "other@example.com",
		"password":   "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, env.Message, "already exists")
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	user := seedUser(t, db, "amina")

	status, _ := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/login", "", fiber.Map{
		"email":    user.Email,
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginInactiveAccount(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	user := seedUser(t, db, "amina")
	require.NoError(t, db.Model(&user).Update("is_active", false).Error)

	status, env := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/login", "", fiber.Map{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "inactive")
}

func TestAdminLoginRejectsLearner(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	user := seedUser(t, db, "amina")

	status, _ := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/admin/login", "", fiber.Map{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	admin := seedAdmin(t, db)
	status, env := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/admin/login", "", fiber.Map{
		"email":    admin.Email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)

	var session struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &session)
	assert.NotEmpty(t, session.Token)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	user := seedUser(t, db, "amina")
	token := tokenFor(t, user.ID, models.RoleUser)

	status, _ := doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/update-profile", token, fiber.Map{
		"first_name": "Aminata",
	})
	require.Equal(t, fiber.StatusOK, status)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "Aminata", stored.FirstName)
	assert.Equal(t, user.LastName, stored.LastName)

	status, _ = doRequest(t, app, fiber.MethodPost, "/api/v1/user/auth/update-profile", token, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

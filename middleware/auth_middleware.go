package middleware

import (
	"strings"

	config "github.com/skillup-app/skillup_backend/configs"
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Invalid or expired token")
}

// CallerID returns the authenticated account id from the JWT claims.
func CallerID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims := token.Claims.(jwt.MapClaims)
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}

// CallerRole returns the normalized role claim. Tokens minted by older
// revisions carried mixed-case role names, so comparison is always on the
// lowercased form.
func CallerRole(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return strings.ToLower(role)
}

// RoleRequired gates a route to a set of roles.
func RoleRequired(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if _, ok := allowed[CallerRole(c)]; !ok {
			return utils.SendResponse(c, fiber.StatusForbidden, false, nil, "Forbidden: insufficient role")
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin, models.RoleSuperAdmin)
}

// ActiveAccount confirms the token still maps to a live account in the
// table matching its role claim.
func ActiveAccount(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := CallerID(c)
		if err != nil {
			return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "User not authenticated")
		}

		var count int64
		switch CallerRole(c) {
		case models.RoleCounselor:
			db.Model(&models.Counselor{}).Where("id = ?", id).Count(&count)
		case models.RoleTutor:
			db.Model(&models.Tutor{}).Where("id = ? AND is_active = ?", id, true).Count(&count)
		default:
			db.Model(&models.User{}).Where("id = ? AND is_active = ? AND is_deleted = ?", id, true, false).Count(&count)
		}
		if count == 0 {
			return utils.SendResponse(c, fiber.StatusUnauthorized, false, nil, "Account is inactive or no longer exists")
		}
		return c.Next()
	}
}

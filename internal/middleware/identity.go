package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
)

const userIDKey = "user_id"

// Identity resolves the caller identifier once per request: the header value
// when present, a fresh UUID otherwise. The identifier is echoed back in the
// same header.
func Identity(header string, log *zap.Logger) fiber.Handler {
	log = logger.OrNop(log)

	return func(c *fiber.Ctx) error {
		userID := utils.CopyString(c.Get(header))
		if userID == "" {
			userID = uuid.NewString()
			log.Debug("Generated new user_id", zap.String(logger.FieldUserID, userID))
		}

		c.Locals(userIDKey, userID)
		c.Set(header, userID)

		return c.Next()
	}
}

// UserID returns the identifier resolved by Identity, or "" when the
// middleware did not run.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// WebSocketUpgrade only lets genuine upgrade requests from an identified
// player through to the websocket handlers.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		if PlayerID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}
		log.Debug().Str("path", c.Path()).Str("player", PlayerID(c)).Msg("websocket upgrade")
		return c.Next()
	}
}

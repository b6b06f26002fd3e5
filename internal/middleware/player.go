package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"
)

const (
	PlayerIDLocal   = "playerID"
	PlayerIDHeader  = "X-Player-ID"
	PlayerIDQuery   = "playerId"
	maxPlayerIDSize = 128
)

// EnsurePlayerID reads the participant id from the X-Player-ID header or the
// playerId query parameter and stores it in the request locals.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDLocal) != nil {
			return c.Next()
		}

		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			playerID = c.Query(PlayerIDQuery)
		}

		if playerID == "" || len(playerID) > maxPlayerIDSize {
			log.Debug().Str("path", c.Path()).Msg("request without a usable player id")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// fiber reuses request buffers once the handler returns
		c.Locals(PlayerIDLocal, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDLocal).(string)
	return id
}

package controller

import (
	"errors"

	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/benbeisheim/uchesstactoe-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotHost),
		errors.Is(err, model.ErrNotInRoom),
		errors.Is(err, model.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrRoomFull),
		errors.Is(err, model.ErrSettingsLocked),
		errors.Is(err, model.ErrWaitingForPlayer),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrPromotionRequired),
		errors.Is(err, model.ErrInvalidPromotion):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

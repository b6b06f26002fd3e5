package controller

import (
	"github.com/benbeisheim/uchesstactoe-backend/internal/middleware"
	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/benbeisheim/uchesstactoe-backend/internal/render"
	"github.com/benbeisheim/uchesstactoe-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type RoomController struct {
	gameService *service.GameService
}

func NewRoomController(gameService *service.GameService) *RoomController {
	return &RoomController{gameService: gameService}
}

// CreateRoom opens a room with the settings from the optional JSON body and
// seats the caller as white.
func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	var req service.CreateRoomRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	roomID, err := rc.gameService.CreateRoom(middleware.PlayerID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Room created",
		"room_id": roomID,
		"color":   model.PlayerColorWhite,
	})
}

func (rc *RoomController) ListRooms(c *fiber.Ctx) error {
	return c.JSON(rc.gameService.ListRooms())
}

func (rc *RoomController) JoinRoom(c *fiber.Ctx) error {
	color, err := rc.gameService.JoinRoom(c.Params("roomId"), middleware.PlayerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Room joined",
		"color":   color,
	})
}

func (rc *RoomController) GetRoomState(c *fiber.Ctx) error {
	state, err := rc.gameService.GetRoomState(c.Params("roomId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

// GetLegalMoves answers which squares the piece on (row, col) may move to.
func (rc *RoomController) GetLegalMoves(c *fiber.Ctx) error {
	pos := model.Position{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	if !pos.InBounds() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col must be between 0 and 8",
		})
	}
	moves, err := rc.gameService.LegalDestinations(c.Params("roomId"), pos)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  pos,
		"moves": moves,
	})
}

func (rc *RoomController) GetBoardSVG(c *fiber.Ctx) error {
	state, err := rc.gameService.GetRoomState(c.Params("roomId"))
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	render.BoardSVG(c, state.Game)
	return nil
}

func (rc *RoomController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := rc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

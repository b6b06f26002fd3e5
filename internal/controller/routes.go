package controller

import (
	"github.com/benbeisheim/uchesstactoe-backend/internal/middleware"
	"github.com/benbeisheim/uchesstactoe-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes mounts the REST API under /api and the sockets under /ws.
func SetupRoutes(app *fiber.App, gameService *service.GameService, origins []string) {
	roomController := NewRoomController(gameService)
	wsController := NewWebSocketController(gameService)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}
	sockets := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	sockets.Get("/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))
	sockets.Get("/rooms/:roomId", websocket.New(wsController.HandleConnection, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	rooms := api.Group("/rooms")
	rooms.Post("/matchmaking/join", roomController.JoinMatchmaking)
	rooms.Post("/", roomController.CreateRoom)
	rooms.Get("/", roomController.ListRooms)
	rooms.Post("/:roomId/join", roomController.JoinRoom)
	rooms.Get("/:roomId", roomController.GetRoomState)
	rooms.Get("/:roomId/moves", roomController.GetLegalMoves)
	rooms.Get("/:roomId/board.svg", roomController.GetBoardSVG)
}

package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/uchesstactoe-backend/internal/middleware"
	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/benbeisheim/uchesstactoe-backend/internal/service"
	"github.com/benbeisheim/uchesstactoe-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// settingsPayload is the body of reset and configure messages.
type settingsPayload struct {
	Layout         string `json:"layout"`
	CaptureTheKing *bool  `json:"captureTheKing"`
}

// HandleConnection serves one participant of a room until the socket closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	roomID := c.Params("roomId")
	playerID, _ := c.Locals(middleware.PlayerIDLocal).(string)
	logger := log.With().Str("room", roomID).Str("player", playerID).Logger()

	if err := wsc.gameService.RegisterConnection(roomID, playerID, c); err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		if msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()}); merr == nil {
			_ = c.WriteJSON(msg)
		}
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(roomID, playerID, c)
	logger.Debug().Msg("websocket connected")

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("websocket closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug().Err(err).Msg("unparseable message")
			wsc.gameService.SendError(roomID, playerID, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(roomID, playerID, msg); err != nil {
			logger.Debug().Err(err).Str("type", string(msg.Type)).Msg("message rejected")
			wsc.gameService.SendError(roomID, playerID, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(roomID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidMove, err)
		}
		_, err := wsc.gameService.HandleMove(roomID, playerID, move)
		return err

	case ws.MessageTypeSelect:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidMove, err)
		}
		return wsc.gameService.SendLegalMoves(roomID, playerID, pos)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(roomID, playerID)

	case ws.MessageTypeReset, ws.MessageTypeConfigure:
		var settings settingsPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &settings); err != nil {
				return fmt.Errorf("%w: %v", service.ErrInvalidSettings, err)
			}
		}
		if msg.Type == ws.MessageTypeReset {
			return wsc.gameService.Reset(roomID, playerID, settings.Layout, settings.CaptureTheKing)
		}
		return wsc.gameService.Configure(roomID, playerID, settings.Layout, settings.CaptureTheKing)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking holds a queued player's socket open until their match is
// found or they disconnect.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDLocal).(string)
	logger := log.With().Str("player", playerID).Logger()

	ch := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			logger.Debug().Msg("matchmaking socket replaced")
			return
		}
		msg := ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}
		if err := c.WriteJSON(msg); err != nil {
			logger.Warn().Err(err).Msg("failed to send matchFound")
		}
	case <-closed:
		logger.Debug().Msg("left matchmaking")
	}
}

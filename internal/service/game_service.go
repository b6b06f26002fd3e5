package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/benbeisheim/uchesstactoe-backend/internal/ws"
	"github.com/rs/zerolog/log"
)

var ErrInvalidSettings = errors.New("invalid settings")

// CreateRoomRequest carries the optional settings of a new room. Missing
// fields fall back to the server defaults.
type CreateRoomRequest struct {
	Name           string `json:"name"`
	Layout         string `json:"layout"`
	CaptureTheKing *bool  `json:"captureTheKing"`
}

type GameService struct {
	roomManager *RoomManager
}

func NewGameService(roomManager *RoomManager) *GameService {
	return &GameService{
		roomManager: roomManager,
	}
}

// ResolveSettings overrides base with the given layout and capture mode.
func ResolveSettings(base model.Settings, layout string, captureTheKing *bool) (model.Settings, error) {
	settings := base
	if layout != "" {
		parsed, err := model.ParseLayout(layout)
		if err != nil {
			return model.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
		settings.Layout = parsed
	}
	if captureTheKing != nil {
		settings.CaptureTheKing = *captureTheKing
	}
	return settings, nil
}

// CreateRoom opens a room and seats the creator as white.
func (gs *GameService) CreateRoom(playerID string, req CreateRoomRequest) (string, error) {
	settings, err := ResolveSettings(gs.roomManager.Defaults(), req.Layout, req.CaptureTheKing)
	if err != nil {
		return "", err
	}
	room := gs.roomManager.CreateRoom(req.Name, settings)
	if _, err := room.AddPlayer(playerID); err != nil {
		return "", fmt.Errorf("failed to seat creator: %w", err)
	}
	return room.ID, nil
}

func (gs *GameService) ListRooms() []model.RoomSummary {
	return gs.roomManager.ListRooms()
}

func (gs *GameService) JoinRoom(roomID, playerID string) (model.PlayerColor, error) {
	return gs.roomManager.JoinRoom(roomID, playerID)
}

func (gs *GameService) GetRoomState(roomID string) (model.RoomState, error) {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return model.RoomState{}, err
	}
	return room.GetState(), nil
}

func (gs *GameService) LegalDestinations(roomID string, pos model.Position) ([]model.Position, error) {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	return room.Destinations(pos), nil
}

func (gs *GameService) HandleMove(roomID, playerID string, move model.Move) (*model.MoveResult, error) {
	return gs.roomManager.MakeMove(roomID, playerID, move)
}

func (gs *GameService) Resign(roomID, playerID string) error {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return err
	}
	return room.Resign(playerID)
}

// Reset restarts the room's game. Empty layout and nil captureTheKing keep
// the room's current settings.
func (gs *GameService) Reset(roomID, playerID, layout string, captureTheKing *bool) error {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return err
	}
	settings, err := ResolveSettings(room.GetState().Game.Settings, layout, captureTheKing)
	if err != nil {
		return err
	}
	return room.Reset(playerID, &settings)
}

func (gs *GameService) Configure(roomID, playerID, layout string, captureTheKing *bool) error {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return err
	}
	settings, err := ResolveSettings(room.GetState().Game.Settings, layout, captureTheKing)
	if err != nil {
		return err
	}
	return room.Configure(playerID, settings)
}

func (gs *GameService) SendLegalMoves(roomID, playerID string, pos model.Position) error {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return err
	}
	room.Send(playerID, ws.MessageTypeLegalMoves, struct {
		From  model.Position   `json:"from"`
		Moves []model.Position `json:"moves"`
	}{pos, room.Destinations(pos)})
	return nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.roomManager.JoinMatchmaking(playerID)
}

func (gs *GameService) RegisterConnection(roomID, playerID string, conn model.Conn) error {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return err
	}
	return room.RegisterConnection(playerID, conn)
}

// UnregisterConnection drops conn. A seated player whose live connection
// goes away abandons an active game.
func (gs *GameService) UnregisterConnection(roomID, playerID string, conn model.Conn) {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return
	}
	if !room.UnregisterConnection(playerID, conn) {
		return
	}
	if room.Leave(playerID) {
		log.Info().Str("room", roomID).Str("player", playerID).Msg("player left an active game")
	}
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.roomManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.roomManager.UnregisterMatchmakingChannel(playerID, ch)
}

// SendError reports a failed request to the player over the room socket.
func (gs *GameService) SendError(roomID, playerID string, cause error) {
	room, err := gs.roomManager.GetRoom(roomID)
	if err != nil {
		return
	}
	room.Send(playerID, ws.MessageTypeError, ws.ErrorPayload{Error: cause.Error()})
}

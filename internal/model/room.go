package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/uchesstactoe-backend/internal/ws"
	"github.com/rs/zerolog/log"
)

// The connections watching a specific room
type RoomConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

// Room is the authority for one match: it owns the canonical move log and
// replays every incoming move through the rule engine before accepting it.
type Room struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	mu          sync.Mutex
	lastActive  time.Time
	game        *Game
	moves       []Move
	players     struct{ White, Black string }
	connections *RoomConnections
}

// RoomState is what clients receive: the move log to replay plus the
// engine's own view of the position.
type RoomState struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	Moves []Move    `json:"moves"`
	Game  GameState `json:"game"`
}

type RoomSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Players  int       `json:"players"`
	Started  bool      `json:"started"`
	Terminal bool      `json:"terminal"`
	Settings Settings  `json:"settings"`
	Created  time.Time `json:"createdAt"`
}

func NewRoom(id, name string, settings Settings) *Room {
	if name == "" {
		name = id
	}
	return &Room{
		ID:          id,
		Name:        name,
		CreatedAt:   time.Now(),
		lastActive:  time.Now(),
		game:        NewGame(settings),
		moves:       make([]Move, 0),
		connections: NewRoomConnections(),
	}
}

func NewRoomConnections() *RoomConnections {
	return &RoomConnections{
		connections: make(map[string]Conn),
	}
}

// AddPlayer seats playerID. The first player takes white and hosts the room;
// a player already seated keeps their color.
func (r *Room) AddPlayer(playerID string) (PlayerColor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if color, ok := r.colorOf(playerID); ok {
		return color, nil
	}
	if r.players.White == "" {
		r.players.White = playerID
		log.Debug().Str("room", r.ID).Str("player", playerID).Msg("seated white")
		return PlayerColorWhite, nil
	}
	if r.players.Black == "" {
		r.players.Black = playerID
		log.Debug().Str("room", r.ID).Str("player", playerID).Msg("seated black")
		return PlayerColorBlack, nil
	}
	return PlayerColorNone, ErrRoomFull
}

func (r *Room) ColorOf(playerID string) (PlayerColor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.colorOf(playerID)
}

func (r *Room) colorOf(playerID string) (PlayerColor, bool) {
	switch {
	case playerID == "":
		return PlayerColorNone, false
	case r.players.White == playerID:
		return PlayerColorWhite, true
	case r.players.Black == playerID:
		return PlayerColorBlack, true
	}
	return PlayerColorNone, false
}

func (r *Room) isFull() bool {
	return r.players.White != "" && r.players.Black != ""
}

// Configure changes the settings. Only the host may do it, and only before
// the first move.
func (r *Room) Configure(playerID string, settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.players.White != playerID {
		return ErrNotHost
	}
	if r.game.Outcome() != nil {
		return ErrGameOver
	}
	if len(r.moves) > 0 {
		return ErrSettingsLocked
	}
	r.game.Reset(settings)
	r.broadcastLocked(ws.MessageTypeGameState, r.stateLocked())
	return nil
}

// MakeMove validates and commits move for playerID. It returns the move's
// one-based position in the room's log.
func (r *Room) MakeMove(playerID string, move Move) (*MoveResult, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	color, ok := r.colorOf(playerID)
	if !ok {
		return nil, 0, ErrNotInRoom
	}
	if !r.isFull() {
		return nil, 0, ErrWaitingForPlayer
	}
	if color != r.game.ToMove() {
		return nil, 0, ErrNotYourTurn
	}
	result, err := r.game.Commit(move)
	if err != nil {
		return nil, 0, err
	}
	r.moves = append(r.moves, result.Ply.Record())
	log.Info().Str("room", r.ID).Str("color", string(color)).Str("move", result.Ply.Notation).
		Str("event", string(result.Event)).Msg("move committed")

	r.broadcastLocked(ws.MessageTypeMoveApplied, result)
	r.broadcastLocked(ws.MessageTypeGameState, r.stateLocked())
	return result, len(r.moves), nil
}

func (r *Room) Resign(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	color, ok := r.colorOf(playerID)
	if !ok {
		return ErrNotInRoom
	}
	if err := r.game.Resign(color); err != nil {
		return err
	}
	log.Info().Str("room", r.ID).Str("color", string(color)).Msg("resigned")
	r.broadcastLocked(ws.MessageTypeGameState, r.stateLocked())
	return nil
}

// Reset clears the move log and starts a fresh game. A nil settings keeps
// the current ones.
func (r *Room) Reset(playerID string, settings *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.players.White != playerID {
		return ErrNotHost
	}
	next := r.game.Settings()
	if settings != nil {
		next = *settings
	}
	r.game.Reset(next)
	r.moves = make([]Move, 0)
	log.Info().Str("room", r.ID).Str("layout", string(next.Layout)).Msg("room reset")
	r.broadcastLocked(ws.MessageTypeReset, nil)
	r.broadcastLocked(ws.MessageTypeGameState, r.stateLocked())
	return nil
}

// Leave handles a seated player dropping out. An active game with both
// seats taken is abandoned by the leaver.
func (r *Room) Leave(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	color, ok := r.colorOf(playerID)
	if !ok || !r.isFull() || r.game.Outcome() != nil {
		return false
	}
	if err := r.game.Abandon(color); err != nil {
		return false
	}
	log.Info().Str("room", r.ID).Str("color", string(color)).Msg("game abandoned")
	r.broadcastLocked(ws.MessageTypeOpponentLeft, ClientPlayer{ID: playerID, Color: color})
	r.broadcastLocked(ws.MessageTypeGameState, r.stateLocked())
	return true
}

func (r *Room) Destinations(pos Position) []Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Destinations(pos)
}

// Moves returns a copy of the canonical move log.
func (r *Room) Moves() []Move {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Move{}, r.moves...)
}

func (r *Room) GetState() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Room) stateLocked() RoomState {
	state := RoomState{
		ID:    r.ID,
		Name:  r.Name,
		Moves: append([]Move{}, r.moves...),
		Game:  r.game.State(),
	}
	if r.players.White != "" {
		state.Players.White = ClientPlayer{ID: r.players.White, Color: PlayerColorWhite}
	}
	if r.players.Black != "" {
		state.Players.Black = ClientPlayer{ID: r.players.Black, Color: PlayerColorBlack}
	}
	return state
}

func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	seated := 0
	if r.players.White != "" {
		seated++
	}
	if r.players.Black != "" {
		seated++
	}
	return RoomSummary{
		ID:       r.ID,
		Name:     r.Name,
		Players:  seated,
		Started:  len(r.moves) > 0,
		Terminal: r.game.Outcome() != nil,
		Settings: r.game.Settings(),
		Created:  r.CreatedAt,
	}
}

// RegisterConnection attaches a participant's connection. Seated players
// learn their color; the first one is told to wait for an opponent.
func (r *Room) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	r.connections.mu.Lock()
	if _, exists := r.connections.connections[playerID]; exists {
		// Keep the healthy connection and reject the newcomer.
		r.connections.mu.Unlock()
		msg, _ := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: "connection already exists"})
		_ = conn.WriteJSON(msg)
		_ = conn.Close()
		log.Warn().Str("room", r.ID).Str("player", playerID).Msg("duplicate connection rejected")
		return nil
	}
	r.connections.connections[playerID] = conn
	r.connections.mu.Unlock()
	log.Debug().Str("room", r.ID).Str("player", playerID).Str("conn", connID).Msg("connection registered")

	if color, ok := r.colorOf(playerID); ok {
		r.sendLocked(playerID, ws.MessageTypeAssignColor, color)
		if !r.isFull() {
			r.sendLocked(playerID, ws.MessageTypeWaitingForOpponent, nil)
		}
	}
	r.broadcastLocked(ws.MessageTypeGameState, r.stateLocked())
	return nil
}

// UnregisterConnection drops conn if it is still the player's current one.
func (r *Room) UnregisterConnection(playerID string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	r.connections.mu.Lock()
	defer r.connections.mu.Unlock()

	current, exists := r.connections.connections[playerID]
	if !exists || current != conn {
		log.Debug().Str("room", r.ID).Str("player", playerID).Msg("ignoring unregister for stale connection")
		return false
	}
	delete(r.connections.connections, playerID)
	return true
}

func (r *Room) touch() {
	r.lastActive = time.Now()
}

// Idle reports whether nobody is connected and nothing has happened in the
// room for at least ttl.
func (r *Room) Idle(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connections.mu.Lock()
	defer r.connections.mu.Unlock()
	return len(r.connections.connections) == 0 && now.Sub(r.lastActive) >= ttl
}

// Send delivers a message to a single participant.
func (r *Room) Send(playerID string, t ws.MessageType, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendLocked(playerID, t, payload)
}

func (r *Room) sendLocked(playerID string, t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Error().Err(err).Str("room", r.ID).Msg("failed to marshal message")
		return
	}
	r.connections.mu.Lock()
	defer r.connections.mu.Unlock()
	if conn, ok := r.connections.connections[playerID]; ok {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn().Err(err).Str("room", r.ID).Str("player", playerID).Msg("failed to send message")
			delete(r.connections.connections, playerID)
		}
	}
}

// broadcastLocked writes msg to every connection. Writes happen under the
// connections mutex so no two goroutines write to one socket at once.
func (r *Room) broadcastLocked(t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Error().Err(err).Str("room", r.ID).Msg("failed to marshal message")
		return
	}
	r.connections.mu.Lock()
	defer r.connections.mu.Unlock()
	for playerID, conn := range r.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn().Err(err).Str("room", r.ID).Str("player", playerID).Msg("failed to send state")
			delete(r.connections.connections, playerID)
		}
	}
}

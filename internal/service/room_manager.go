package service

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/benbeisheim/uchesstactoe-backend/internal/feed"
	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomManager owns every live room and the quick match queue.
type RoomManager struct {
	rooms            map[string]*model.Room
	queue            *model.Queue
	matchingChannels map[string]chan string
	pendingMatches   map[string]string
	defaults         model.Settings
	feed             feed.MoveFeed
	idleTTL          time.Duration
	mu               sync.RWMutex
}

// NewRoomManager creates an empty manager. Rooms nobody has touched or
// watched for idleTTL are dropped by Run; zero keeps rooms forever.
func NewRoomManager(defaults model.Settings, moveFeed feed.MoveFeed, idleTTL time.Duration) *RoomManager {
	if moveFeed == nil {
		moveFeed = feed.Nop{}
	}
	return &RoomManager{
		rooms:            make(map[string]*model.Room),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		pendingMatches:   make(map[string]string),
		defaults:         defaults,
		feed:             moveFeed,
		idleTTL:          idleTTL,
	}
}

func (rm *RoomManager) Defaults() model.Settings {
	return rm.defaults
}

func (rm *RoomManager) CreateRoom(name string, settings model.Settings) *model.Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.createRoomLocked(name, settings)
}

func (rm *RoomManager) createRoomLocked(name string, settings model.Settings) *model.Room {
	roomID := uuid.New().String()
	room := model.NewRoom(roomID, name, settings)
	rm.rooms[roomID] = room
	log.Info().Str("room", roomID).Str("layout", string(settings.Layout)).
		Bool("captureTheKing", settings.CaptureTheKing).Msg("room created")
	return room
}

func (rm *RoomManager) GetRoom(roomID string) (*model.Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ListRooms returns a summary of every room, oldest first.
func (rm *RoomManager) ListRooms() []model.RoomSummary {
	rm.mu.RLock()
	rooms := lo.Values(rm.rooms)
	rm.mu.RUnlock()

	summaries := lo.Map(rooms, func(r *model.Room, _ int) model.RoomSummary {
		return r.Summary()
	})
	slices.SortFunc(summaries, func(a, b model.RoomSummary) int {
		return a.Created.Compare(b.Created)
	})
	return summaries
}

func (rm *RoomManager) JoinRoom(roomID, playerID string) (model.PlayerColor, error) {
	room, err := rm.GetRoom(roomID)
	if err != nil {
		return model.PlayerColorNone, err
	}
	return room.AddPlayer(playerID)
}

// MakeMove commits a move in a room and publishes it to the move feed.
func (rm *RoomManager) MakeMove(roomID, playerID string, move model.Move) (*model.MoveResult, error) {
	room, err := rm.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	result, seq, err := room.MakeMove(playerID, move)
	if err != nil {
		return nil, err
	}
	rec := feed.Record{
		RoomID:   roomID,
		Seq:      seq,
		Move:     result.Ply.Record(),
		Notation: result.Ply.Notation,
		Event:    result.Event,
		Outcome:  result.Outcome,
		At:       time.Now(),
	}
	if err := rm.feed.Publish(rec); err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("move feed publish failed")
	}
	return result, nil
}

func (rm *RoomManager) JoinMatchmaking(playerID string) error {
	if err := rm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		log.Debug().Err(err).Str("player", playerID).Msg("matchmaking join rejected")
		return err
	}
	log.Debug().Str("player", playerID).Int("queued", rm.queue.Size()).Msg("joined matchmaking")
	return nil
}

// RegisterMatchmakingChannel routes playerID's matchFound event to ch and
// closes ch once the event is sent. A match made before the channel arrived
// is delivered immediately.
func (rm *RoomManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if existing, exists := rm.matchingChannels[playerID]; exists {
		delete(rm.matchingChannels, playerID)
		close(existing)
	}
	rm.matchingChannels[playerID] = ch
	if event, ok := rm.pendingMatches[playerID]; ok {
		delete(rm.pendingMatches, playerID)
		rm.deliverLocked(playerID, event)
	}
}

// UnregisterMatchmakingChannel forgets ch and takes the player out of the
// queue if no match was made yet.
func (rm *RoomManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if current, exists := rm.matchingChannels[playerID]; exists && current == ch {
		delete(rm.matchingChannels, playerID)
		rm.queue.Remove(playerID)
	}
}

// Run pairs queued players every interval and sweeps idle rooms until ctx
// is cancelled.
func (rm *RoomManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var sweep <-chan time.Time
	if rm.idleTTL > 0 {
		sweepTicker := time.NewTicker(rm.idleTTL / 4)
		defer sweepTicker.Stop()
		sweep = sweepTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rm.matchPlayers()
		case now := <-sweep:
			rm.sweepIdleRooms(now)
		}
	}
}

// sweepIdleRooms drops rooms that have been idle for idleTTL and returns how
// many were removed.
func (rm *RoomManager) sweepIdleRooms(now time.Time) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	removed := 0
	for id, room := range rm.rooms {
		if room.Idle(now, rm.idleTTL) {
			delete(rm.rooms, id)
			removed++
			log.Info().Str("room", id).Msg("idle room removed")
		}
	}
	return removed
}

// matchPlayers seats every available pair in a fresh room and returns the
// number of rooms created.
func (rm *RoomManager) matchPlayers() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	created := 0
	for {
		player1, player2, ok := rm.queue.GetNextPair()
		if !ok {
			return created
		}
		room := rm.createRoomLocked("", rm.defaults)
		for _, p := range []model.Player{player1, player2} {
			color, err := room.AddPlayer(p.ID)
			if err != nil {
				log.Error().Err(err).Str("room", room.ID).Str("player", p.ID).Msg("seating matched player")
				continue
			}
			rm.deliverLocked(p.ID, mustJSON(model.MatchFoundEvent{RoomID: room.ID, Color: color}))
		}
		created++
	}
}

func (rm *RoomManager) deliverLocked(playerID, event string) {
	ch, ok := rm.matchingChannels[playerID]
	if !ok {
		rm.pendingMatches[playerID] = event
		return
	}
	select {
	case ch <- event:
		delete(rm.matchingChannels, playerID)
		close(ch)
		log.Debug().Str("player", playerID).Msg("sent matchFound")
	default:
		rm.pendingMatches[playerID] = event
		log.Warn().Str("player", playerID).Msg("matchmaking channel full, match kept pending")
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

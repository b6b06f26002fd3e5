package model

import (
	"fmt"
	"sync"
	"time"
)

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue holds participants waiting for a quick match.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

// MatchFoundEvent tells a queued participant where to play.
type MatchFoundEvent struct {
	RoomID string      `json:"roomId"`
	Color  PlayerColor `json:"color"`
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == player.ID {
			return fmt.Errorf("player already in queue")
		}
	}

	q.players = append(q.players, QueuedPlayer{
		Player:   player,
		JoinedAt: time.Now(),
	})
	return nil
}

// Remove takes playerID out of the queue and reports whether it was there.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.Player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// GetNextPair pops the two players who have waited longest.
func (q *Queue) GetNextPair() (Player, Player, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return Player{}, Player{}, false
	}
	player1 := q.players[0].Player
	player2 := q.players[1].Player
	q.players = q.players[2:]

	return player1, player2, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}

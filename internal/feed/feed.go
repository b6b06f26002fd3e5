package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Record is one committed move as seen by feed subscribers. Replaying the
// Move values of a room in Seq order reconstructs its game.
type Record struct {
	RoomID   string         `json:"roomId"`
	Seq      int            `json:"seq"`
	Move     model.Move     `json:"move"`
	Notation string         `json:"notation"`
	Event    model.Event    `json:"event"`
	Outcome  *model.Outcome `json:"outcome,omitempty"`
	At       time.Time      `json:"at"`
}

// MoveFeed receives every move a room accepts.
type MoveFeed interface {
	Publish(rec Record) error
	Close()
}

// New returns a NATS backed feed, or a no-op feed when url is empty.
func New(url, subject string) (MoveFeed, error) {
	if url == "" {
		return Nop{}, nil
	}
	nc, err := nats.Connect(url, nats.Name("uchesstactoe"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	log.Info().Str("url", url).Str("subject", subject).Msg("publishing moves to nats")
	return &NatsFeed{conn: nc, subject: subject}, nil
}

type publisher interface {
	Publish(subj string, data []byte) error
}

type NatsFeed struct {
	conn    publisher
	subject string
}

func (f *NatsFeed) Subject(roomID string) string {
	return f.subject + "." + roomID
}

func (f *NatsFeed) Publish(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := f.conn.Publish(f.Subject(rec.RoomID), data); err != nil {
		return fmt.Errorf("publishing move %d of room %s: %w", rec.Seq, rec.RoomID, err)
	}
	return nil
}

func (f *NatsFeed) Close() {
	if nc, ok := f.conn.(*nats.Conn); ok {
		if err := nc.Drain(); err != nil {
			log.Warn().Err(err).Msg("draining nats connection")
		}
	}
}

// Nop discards records.
type Nop struct{}

func (Nop) Publish(Record) error { return nil }
func (Nop) Close() {}

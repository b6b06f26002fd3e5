package model

import (
	"testing"

	"github.com/matryer/is"
)

func TestQueuePairsLongestWaiting(t *testing.T) {
	is := is.New(t)
	q := NewQueue()
	_, _, ok := q.GetNextPair()
	is.True(!ok)

	is.NoErr(q.AddPlayer(Player{ID: "a"}))
	is.True(q.AddPlayer(Player{ID: "a"}) != nil)
	is.NoErr(q.AddPlayer(Player{ID: "b"}))
	is.NoErr(q.AddPlayer(Player{ID: "c"}))
	is.True(q.Remove("b"))
	is.True(!q.Remove("b"))

	p1, p2, ok := q.GetNextPair()
	is.True(ok)
	is.Equal(p1.ID, "a")
	is.Equal(p2.ID, "c")
	is.Equal(q.Size(), 0)
}

package model

import (
	"testing"

	"github.com/matryer/is"
	"github.com/samber/lo"
)

func TestDestinationsStayOnBoard(t *testing.T) {
	is := is.New(t)
	for _, layout := range []Layout{LayoutSet1, LayoutSet2} {
		board := newBoard(layout)
		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				for _, d := range LegalDestinations(board, pos(row, col), nil) {
					is.True(d.InBounds())
				}
			}
		}
	}
}

func TestRookOnEmptyBoard(t *testing.T) {
	is := is.New(t)
	g := emptyGame(false)
	put(g, 4, 4, Rook, PlayerColorWhite)
	is.Equal(len(LegalDestinations(g.board, pos(4, 4), nil)), 16)
}

func TestSlidingRayStopsAtFirstOccupant(t *testing.T) {
	is := is.New(t)
	g := emptyGame(false)
	put(g, 4, 4, Queen, PlayerColorWhite)
	put(g, 4, 6, Pawn, PlayerColorWhite)
	put(g, 2, 4, Knight, PlayerColorBlack)
	put(g, 6, 6, Bishop, PlayerColorBlack)

	dests := LegalDestinations(g.board, pos(4, 4), nil)
	is.True(lo.Contains(dests, pos(4, 5)))
	is.True(!lo.Contains(dests, pos(4, 6)))
	is.True(!lo.Contains(dests, pos(4, 7)))
	is.True(lo.Contains(dests, pos(3, 4)))
	is.True(lo.Contains(dests, pos(2, 4)))
	is.True(!lo.Contains(dests, pos(1, 4)))
	is.True(lo.Contains(dests, pos(6, 6)))
	is.True(!lo.Contains(dests, pos(7, 7)))
}

func TestKnightAndKingOffsets(t *testing.T) {
	is := is.New(t)
	g := emptyGame(false)
	put(g, 0, 0, Knight, PlayerColorWhite)
	put(g, 2, 1, Pawn, PlayerColorWhite)
	put(g, 1, 2, Pawn, PlayerColorBlack)
	is.Equal(LegalDestinations(g.board, pos(0, 0), nil), []Position{pos(1, 2)})

	king := put(g, 8, 8, King, PlayerColorBlack)
	king.HasMoved = true
	is.Equal(len(LegalDestinations(g.board, pos(8, 8), nil)), 3)
}

func TestPawnDoubleStepFromEitherHomeRank(t *testing.T) {
	is := is.New(t)
	g := emptyGame(false)
	put(g, 2, 0, Pawn, PlayerColorWhite)
	put(g, 3, 5, Pawn, PlayerColorWhite)
	put(g, 6, 7, Pawn, PlayerColorBlack)
	put(g, 1, 3, Pawn, PlayerColorWhite)
	put(g, 3, 3, Rook, PlayerColorBlack)

	is.Equal(LegalDestinations(g.board, pos(2, 0), nil), []Position{pos(3, 0), pos(4, 0)})
	is.Equal(LegalDestinations(g.board, pos(3, 5), nil), []Position{pos(4, 5)})
	is.Equal(LegalDestinations(g.board, pos(6, 7), nil), []Position{pos(5, 7), pos(4, 7)})
	// destination of the double step is occupied
	is.Equal(LegalDestinations(g.board, pos(1, 3), nil), []Position{pos(2, 3)})
}

func TestPawnCapturesOnlyDiagonallyForward(t *testing.T) {
	is := is.New(t)
	g := emptyGame(false)
	put(g, 4, 4, Pawn, PlayerColorBlack)
	put(g, 3, 4, Pawn, PlayerColorWhite)
	put(g, 3, 3, Knight, PlayerColorWhite)
	put(g, 3, 5, Knight, PlayerColorBlack)

	is.Equal(LegalDestinations(g.board, pos(4, 4), nil), []Position{pos(3, 3)})
}

func TestEnPassantDestination(t *testing.T) {
	is := is.New(t)
	g := emptyGame(false)
	put(g, 4, 4, Pawn, PlayerColorWhite)
	target := pos(5, 3)
	is.True(!lo.Contains(LegalDestinations(g.board, pos(4, 4), &target), target))

	put(g, 4, 3, Pawn, PlayerColorBlack)
	dests := LegalDestinations(g.board, pos(4, 4), &target)
	is.True(lo.Contains(dests, pos(5, 3)))

	far := pos(5, 1)
	is.True(!lo.Contains(LegalDestinations(g.board, pos(4, 4), &far), far))
}

func TestEnPassantNotOfferedToMoversOwnSide(t *testing.T) {
	is := is.New(t)
	g := NewGame(DefaultSettings())
	_, err := g.Commit(Move{From: pos(1, 4), To: pos(3, 4)})
	is.NoErr(err)
	is.Equal(*g.EnPassantTarget(), pos(2, 4))

	// white's neighbouring pawns must not treat their own double step as capturable
	is.Equal(g.Destinations(pos(1, 3)), []Position{pos(2, 3), pos(3, 3)})
	is.Equal(g.Destinations(pos(1, 5)), []Position{pos(2, 5), pos(3, 5)})
}

func TestCastlingScenarioB(t *testing.T) {
	is := is.New(t)
	g := emptyGame(true)
	put(g, 0, 3, King, PlayerColorWhite)
	put(g, 0, 0, Rook, PlayerColorWhite)
	put(g, 8, 8, King, PlayerColorBlack)

	dests := LegalDestinations(g.board, pos(0, 3), nil)
	is.True(lo.Contains(dests, pos(0, 1)))
	is.True(!lo.Contains(dests, pos(0, 5)))
}

func TestCastlingUnavailable(t *testing.T) {
	for _, tc := range []struct {
		name  string
		setup func(g *Game)
	}{
		{"king moved", func(g *Game) {
			g.board.PieceAt(pos(0, 3)).HasMoved = true
		}},
		{"rook moved", func(g *Game) {
			g.board.PieceAt(pos(0, 0)).HasMoved = true
		}},
		{"nearest piece is not a rook", func(g *Game) {
			put(g, 0, 1, Knight, PlayerColorWhite)
		}},
		{"nearest piece is an opposing rook", func(g *Game) {
			put(g, 0, 2, Rook, PlayerColorBlack)
		}},
		{"rook adjacent to king", func(g *Game) {
			g.board.Remove(pos(0, 0))
			put(g, 0, 2, Rook, PlayerColorWhite)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			g := emptyGame(true)
			put(g, 0, 3, King, PlayerColorWhite)
			put(g, 0, 0, Rook, PlayerColorWhite)
			put(g, 8, 8, King, PlayerColorBlack)
			tc.setup(g)
			is.True(!lo.Contains(LegalDestinations(g.board, pos(0, 3), nil), pos(0, 1)))
		})
	}
}

func TestCastlingFindsDistantRook(t *testing.T) {
	is := is.New(t)
	g := NewGame(DefaultSettings())
	for col := 4; col <= 6; col++ {
		g.board.Remove(pos(0, col))
	}
	dests := LegalDestinations(g.board, pos(0, 3), nil)
	is.True(lo.Contains(dests, pos(0, 5)))
}

func TestIsInCheck(t *testing.T) {
	is := is.New(t)
	g := emptyGame(true)
	put(g, 0, 0, King, PlayerColorWhite)
	put(g, 8, 4, King, PlayerColorBlack)
	put(g, 1, 4, Rook, PlayerColorWhite)
	is.True(IsInCheck(g.board, PlayerColorBlack))
	is.True(!IsInCheck(g.board, PlayerColorWhite))

	put(g, 5, 4, Pawn, PlayerColorBlack)
	is.True(!IsInCheck(g.board, PlayerColorBlack))

	g.board.Remove(pos(8, 4))
	is.True(!IsInCheck(g.board, PlayerColorBlack))
}

package model

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Settings are chosen before the first move and fixed for the whole game.
type Settings struct {
	Layout         Layout `json:"layout"`
	CaptureTheKing bool   `json:"captureTheKing"`
}

func DefaultSettings() Settings {
	return Settings{Layout: LayoutSet1, CaptureTheKing: true}
}

type OutcomeReason string

const (
	OutcomeKingCaptured OutcomeReason = "kingCaptured"
	OutcomeNoPiecesLeft OutcomeReason = "noPiecesLeft"
	OutcomeTicTacToe    OutcomeReason = "ticTacToe"
	OutcomeResignation  OutcomeReason = "resignation"
	OutcomeAbandoned    OutcomeReason = "abandoned"
)

type Outcome struct {
	Reason OutcomeReason `json:"reason"`
	Winner PlayerColor   `json:"winner"`
	Loser  PlayerColor   `json:"loser"`
}

type Phase string

const (
	PhaseAwaitingSelection Phase = "awaitingSelection"
	PhasePieceSelected     Phase = "pieceSelected"
	PhaseTerminal          Phase = "terminal"
)

// Game holds the authoritative state of one match. It is not safe for
// concurrent use; Room serializes access.
type Game struct {
	settings        Settings
	board           *Board
	toMove          PlayerColor
	enPassantTarget *Position
	fields          [FieldCount]PlayerColor
	outcome         *Outcome
	isCheck         bool
	selected        *Position
	legalMoves      []Position
	history         []Ply
	lastEvent       Event
}

// GameState is a snapshot of a Game for clients.
type GameState struct {
	Settings        Settings                `json:"settings"`
	Board           *Board                  `json:"board"`
	ToMove          PlayerColor             `json:"toMove"`
	Phase           Phase                   `json:"phase"`
	Fields          [FieldCount]PlayerColor `json:"fields"`
	IsCheck         bool                    `json:"isCheck"`
	SelectedSquare  *Position               `json:"selectedSquare"`
	LegalMoves      []Position              `json:"legalMoves"`
	EnPassantTarget *Position               `json:"enPassantTarget"`
	Outcome         *Outcome                `json:"outcome"`
	MoveHistory     []Ply                   `json:"moveHistory"`
	LastMove        *Move                   `json:"lastMove"`
	Sound           Event                   `json:"sound"`
}

// MoveResult describes what a committed move did.
type MoveResult struct {
	Ply     Ply      `json:"ply"`
	Event   Event    `json:"event"`
	IsCheck bool     `json:"isCheck"`
	Outcome *Outcome `json:"outcome"`
}

func NewGame(settings Settings) *Game {
	if settings.Layout == "" {
		settings.Layout = LayoutSet1
	}
	return &Game{
		settings:   settings,
		board:      newBoard(settings.Layout),
		toMove:     PlayerColorWhite,
		legalMoves: make([]Position, 0),
		history:    make([]Ply, 0),
	}
}

// Replay rebuilds a game from its ordered move log, validating every move.
func Replay(settings Settings, moves []Move) (*Game, error) {
	g := NewGame(settings)
	for i, m := range moves {
		if _, err := g.Commit(m); err != nil {
			return nil, fmt.Errorf("replay move %d: %w", i+1, err)
		}
	}
	return g, nil
}

// Reset starts over with new settings.
func (g *Game) Reset(settings Settings) {
	*g = *NewGame(settings)
}

func (g *Game) Settings() Settings {
	return g.settings
}

func (g *Game) ToMove() PlayerColor {
	return g.toMove
}

func (g *Game) Outcome() *Outcome {
	return g.outcome
}

func (g *Game) IsCheck() bool {
	return g.isCheck
}

func (g *Game) EnPassantTarget() *Position {
	return g.enPassantTarget
}

func (g *Game) Fields() [FieldCount]PlayerColor {
	return g.fields
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) History() []Ply {
	return append([]Ply(nil), g.history...)
}

func (g *Game) Phase() Phase {
	switch {
	case g.outcome != nil:
		return PhaseTerminal
	case g.selected != nil:
		return PhasePieceSelected
	}
	return PhaseAwaitingSelection
}

func (g *Game) State() GameState {
	state := GameState{
		Settings:       g.settings,
		Board:          g.board.Clone(),
		ToMove:         g.toMove,
		Phase:          g.Phase(),
		Fields:         g.fields,
		IsCheck:        g.isCheck,
		SelectedSquare: g.selected,
		LegalMoves:     append([]Position{}, g.legalMoves...),
		Outcome:        g.outcome,
		MoveHistory:    g.History(),
		Sound:          g.lastEvent,
	}
	if g.enPassantTarget != nil {
		target := *g.enPassantTarget
		state.EnPassantTarget = &target
	}
	if n := len(g.history); n > 0 {
		last := g.history[n-1].Record()
		state.LastMove = &last
	}
	return state
}

// Destinations lists the legal destinations of the piece on pos without
// touching the selection. Nothing moves once the game is over.
func (g *Game) Destinations(pos Position) []Position {
	if g.outcome != nil || !pos.InBounds() {
		return []Position{}
	}
	return LegalDestinations(g.board, pos, g.enPassantTarget)
}

// Select handles a click on pos outside of a commit: an own piece becomes
// the selection, anything else clears it.
func (g *Game) Select(pos Position) []Position {
	piece := g.board.PieceAt(pos)
	if g.outcome != nil || piece == nil || piece.Color != g.toMove {
		g.clearSelection()
		return []Position{}
	}
	selected := pos
	g.selected = &selected
	g.legalMoves = LegalDestinations(g.board, pos, g.enPassantTarget)
	return append([]Position{}, g.legalMoves...)
}

// Click drives the selection state machine. Clicking a highlighted
// destination commits the move. A promoting destination clicked without a
// promotion choice returns ErrPromotionRequired and keeps the selection so
// the caller can ask for one and click again.
func (g *Game) Click(pos Position, promotion PieceType) (*MoveResult, error) {
	if g.outcome != nil {
		return nil, ErrGameOver
	}
	// A highlighted square commits even when it holds an own piece: castling
	// may land the king on its rook's square.
	if g.selected != nil && lo.Contains(g.legalMoves, pos) {
		result, err := g.Commit(Move{From: *g.selected, To: pos, Promotion: promotion})
		if err != nil {
			if !errors.Is(err, ErrPromotionRequired) && !errors.Is(err, ErrInvalidPromotion) {
				g.clearSelection()
			}
			return nil, err
		}
		return result, nil
	}
	if piece := g.board.PieceAt(pos); piece != nil && piece.Color == g.toMove {
		g.Select(pos)
		return nil, nil
	}
	g.clearSelection()
	return nil, nil
}

// Commit validates m against the move generator and applies it. A failed
// commit leaves the game untouched.
func (g *Game) Commit(m Move) (*MoveResult, error) {
	if g.outcome != nil {
		return nil, ErrGameOver
	}
	if !m.From.InBounds() || !m.To.InBounds() {
		return nil, fmt.Errorf("%w: out of bounds %v -> %v", ErrInvalidMove, m.From, m.To)
	}
	piece := g.board.PieceAt(m.From)
	if piece == nil {
		return nil, fmt.Errorf("%w: no piece at %v", ErrInvalidMove, m.From)
	}
	if piece.Color != g.toMove {
		return nil, ErrNotYourTurn
	}
	if !lo.Contains(LegalDestinations(g.board, m.From, g.enPassantTarget), m.To) {
		return nil, fmt.Errorf("%w: %s %v -> %v", ErrIllegalMove, piece.Type, m.From, m.To)
	}
	if piece.Type == Pawn && m.To.Row == piece.Color.promotionRow() {
		if m.Promotion == "" {
			return nil, ErrPromotionRequired
		}
		if !m.Promotion.IsPromotion() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPromotion, m.Promotion)
		}
	} else {
		m.Promotion = ""
	}
	return g.apply(m), nil
}

// Resign ends the game in favour of color's opponent.
func (g *Game) Resign(color PlayerColor) error {
	return g.end(OutcomeResignation, color)
}

// Abandon ends the game after color left it.
func (g *Game) Abandon(color PlayerColor) error {
	return g.end(OutcomeAbandoned, color)
}

func (g *Game) end(reason OutcomeReason, loser PlayerColor) error {
	if g.outcome != nil {
		return ErrGameOver
	}
	if loser != PlayerColorWhite && loser != PlayerColorBlack {
		return fmt.Errorf("unknown color %q", loser)
	}
	g.outcome = &Outcome{Reason: reason, Winner: loser.Opponent(), Loser: loser}
	g.isCheck = false
	g.lastEvent = EventGameOver
	g.clearSelection()
	return nil
}

func (g *Game) clearSelection() {
	g.selected = nil
	g.legalMoves = make([]Position, 0)
}

// apply commits a move already known to be legal. The steps run in a fixed
// order: the rook and any en passant victim leave before the destination is
// cleared and the mover lands.
func (g *Game) apply(m Move) *MoveResult {
	mover := g.board.PieceAt(m.From)
	color := mover.Color
	events := map[Event]bool{EventMove: true}
	ply := Ply{Color: color, Piece: *mover, From: m.From, To: m.To}

	if mover.Type == Pawn && g.enPassantTarget != nil && m.To == *g.enPassantTarget &&
		m.From.Col != m.To.Col && g.board.PieceAt(m.To) == nil {
		passed := Position{Row: m.From.Row, Col: m.To.Col}
		if victim := g.board.PieceAt(passed); victim != nil && victim.Type == Pawn && victim.Color != color {
			captured := *g.board.Remove(passed)
			ply.CapturedPiece = &captured
			ply.EnPassant = true
		}
	}

	if mover.Type == King && abs(m.To.Col-m.From.Col) == 2 {
		side := 1
		if m.To.Col < m.From.Col {
			side = -1
		}
		if rookPos, ok := castlePartner(g.board, mover, m.From, side); ok {
			rook := g.board.Remove(rookPos)
			rookTo := m.To.offset(0, -side)
			rook.HasMoved = true
			g.board.Place(rook, rookTo)
			ply.CastleRookMove = &CastleRookMove{From: rookPos, To: rookTo}
		}
	}

	if occupant := g.board.PieceAt(m.To); occupant != nil {
		captured := *g.board.Remove(m.To)
		ply.CapturedPiece = &captured
	}

	if mover.Type == Pawn && m.To.Row == color.promotionRow() {
		kind := m.Promotion
		if !kind.IsPromotion() {
			kind = Queen
		}
		mover.Type = kind
		mover.Visible = true
		ply.Promotion = kind
		events[EventPromotion] = true
	}

	g.board.Remove(m.From)
	g.board.Place(mover, m.To)

	if ply.Piece.Type != Pawn {
		mover.HasMoved = true
	}

	if ply.Piece.Type == Pawn && abs(m.To.Row-m.From.Row) == 2 {
		g.enPassantTarget = &Position{Row: (m.From.Row + m.To.Row) / 2, Col: m.To.Col}
	} else {
		g.enPassantTarget = nil
	}

	updateVisibility(mover, ply.Piece.Type, m.To)

	ply.FieldsWon = updateFieldOwners(g.board, &g.fields)
	if len(ply.FieldsWon) > 0 {
		events[EventFieldWon] = true
	}
	if ply.CapturedPiece != nil {
		events[EventCapture] = true
	}

	g.outcome = evaluateOutcome(g.board, g.fields, color, g.settings.CaptureTheKing)
	g.toMove = color.Opponent()
	g.isCheck = false
	if g.outcome != nil {
		events[EventGameOver] = true
	} else if IsInCheck(g.board, g.toMove) {
		g.isCheck = true
		events[EventCheck] = true
	}

	ply.Notation = g.getNotation(ply)
	g.history = append(g.history, ply)
	g.lastEvent = topEvent(events)
	g.clearSelection()

	return &MoveResult{Ply: ply, Event: g.lastEvent, IsCheck: g.isCheck, Outcome: g.outcome}
}

// updateVisibility makes the mover count for field ownership. Pawns only
// become visible in the center band; other pieces on their first move.
func updateVisibility(piece *Piece, movedAs PieceType, to Position) {
	if piece.Visible {
		return
	}
	if movedAs != Pawn || (to.Row >= 3 && to.Row <= 5) {
		piece.Visible = true
	}
}

func (g *Game) getNotation(ply Ply) string {
	var notation string
	switch {
	case ply.CastleRookMove != nil && ply.To.Col > ply.From.Col:
		notation = "O-O"
	case ply.CastleRookMove != nil:
		notation = "O-O-O"
	default:
		prefix := ply.Piece.Type.getPieceNotation()
		capture := ""
		if ply.CapturedPiece != nil {
			capture = "x"
			if ply.Piece.Type == Pawn {
				prefix = ply.From.getFileNotation()
			}
		}
		notation = prefix + capture + ply.To.getSquareNotation()
		if ply.Promotion != "" {
			notation += "=" + ply.Promotion.getPieceNotation()
		}
	}
	switch {
	case g.outcome != nil:
		notation += "#"
	case g.isCheck:
		notation += "+"
	}
	return notation
}

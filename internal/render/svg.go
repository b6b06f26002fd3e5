package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
)

const (
	squarePx = 48
	marginPx = 24
	sizePx   = marginPx*2 + squarePx*model.BoardSize

	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	fieldLine   = "#3b2a1a"
	lastMove    = "#cdd26a"
	selected    = "#7fa650"
)

var glyphs = map[model.PlayerColor]map[model.PieceType]string{
	model.PlayerColorWhite: {
		model.King: "♔", model.Queen: "♕", model.Rook: "♖",
		model.Bishop: "♗", model.Knight: "♘", model.Pawn: "♙",
	},
	model.PlayerColorBlack: {
		model.King: "♚", model.Queen: "♛", model.Rook: "♜",
		model.Bishop: "♝", model.Knight: "♞", model.Pawn: "♟",
	},
}

var fieldTint = map[model.PlayerColor]string{
	model.PlayerColorWhite: "fill:#ffffff;fill-opacity:0.35",
	model.PlayerColorBlack: "fill:#000000;fill-opacity:0.30",
}

// squareXY maps a board position to the top-left pixel of its square.
// Row 8 is drawn at the top.
func squareXY(p model.Position) (int, int) {
	return marginPx + p.Col*squarePx, marginPx + (model.BoardSize-1-p.Row)*squarePx
}

// BoardSVG draws state as a standalone SVG document. Owned fields are tinted
// in the owner's color and pieces that do not yet count toward fields are
// drawn faded.
func BoardSVG(w io.Writer, state model.GameState) {
	canvas := svg.New(w)
	canvas.Start(sizePx, sizePx)
	canvas.Rect(0, 0, sizePx, sizePx, "fill:#2b2b2b")

	highlight := map[model.Position]string{}
	if state.LastMove != nil {
		highlight[state.LastMove.From] = lastMove
		highlight[state.LastMove.To] = lastMove
	}
	if state.SelectedSquare != nil {
		highlight[*state.SelectedSquare] = selected
	}

	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			p := model.Position{Row: row, Col: col}
			x, y := squareXY(p)
			fill := lightSquare
			if (row+col)%2 == 0 {
				fill = darkSquare
			}
			if c, ok := highlight[p]; ok {
				fill = c
			}
			canvas.Rect(x, y, squarePx, squarePx, "fill:"+fill)
		}
	}

	for idx, owner := range state.Fields {
		tint, ok := fieldTint[owner]
		if !ok {
			continue
		}
		top := model.Position{Row: (idx/model.FieldSize)*model.FieldSize + model.FieldSize - 1, Col: (idx % model.FieldSize) * model.FieldSize}
		x, y := squareXY(top)
		canvas.Rect(x, y, squarePx*model.FieldSize, squarePx*model.FieldSize, tint)
	}

	for _, p := range state.LegalMoves {
		x, y := squareXY(p)
		canvas.Circle(x+squarePx/2, y+squarePx/2, squarePx/8, "fill:#000000;fill-opacity:0.25")
	}

	if state.Board != nil {
		for row := 0; row < model.BoardSize; row++ {
			for col := 0; col < model.BoardSize; col++ {
				piece := state.Board.Squares[row][col]
				if piece == nil {
					continue
				}
				x, y := squareXY(model.Position{Row: row, Col: col})
				style := "font-size:38px;text-anchor:middle;font-family:serif"
				if !piece.Visible {
					style += ";fill-opacity:0.4"
				}
				canvas.Text(x+squarePx/2, y+squarePx-10, glyphs[piece.Color][piece.Type], style)
			}
		}
	}

	for i := 0; i <= model.BoardSize; i += model.FieldSize {
		offset := marginPx + i*squarePx
		canvas.Line(marginPx, offset, marginPx+model.BoardSize*squarePx, offset, "stroke:"+fieldLine+";stroke-width:3")
		canvas.Line(offset, marginPx, offset, marginPx+model.BoardSize*squarePx, "stroke:"+fieldLine+";stroke-width:3")
	}

	labels := "font-size:14px;fill:#dddddd;text-anchor:middle;font-family:sans-serif"
	for i := 0; i < model.BoardSize; i++ {
		x, y := squareXY(model.Position{Row: i, Col: i})
		canvas.Text(x+squarePx/2, sizePx-8, string(rune('a'+i)), labels)
		canvas.Text(marginPx/2, y+squarePx/2+5, fmt.Sprint(i+1), labels)
	}
	canvas.End()
}

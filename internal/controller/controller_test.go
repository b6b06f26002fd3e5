package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/uchesstactoe-backend/internal/feed"
	"github.com/benbeisheim/uchesstactoe-backend/internal/middleware"
	"github.com/benbeisheim/uchesstactoe-backend/internal/model"
	"github.com/benbeisheim/uchesstactoe-backend/internal/service"
	"github.com/benbeisheim/uchesstactoe-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() (*fiber.App, *service.GameService) {
	gs := service.NewGameService(service.NewRoomManager(model.DefaultSettings(), feed.Nop{}, 0))
	app := fiber.New()
	SetupRoutes(app, gs, []string{"*"})
	return app, gs
}

func do(t *testing.T, app *fiber.App, method, target, player, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if player != "" {
		req.Header.Set(middleware.PlayerIDHeader, player)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createRoom(t *testing.T, app *fiber.App, player, body string) string {
	t.Helper()
	resp, data := do(t, app, "POST", "/api/rooms", player, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	var created struct {
		RoomID string `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	require.NotEmpty(t, created.RoomID)
	return created.RoomID
}

func TestRoomLifecycle(t *testing.T) {
	app, gs := newTestApp()
	roomID := createRoom(t, app, "alice", `{"name":"evening","layout":"2","captureTheKing":false}`)

	resp, data := do(t, app, "POST", "/api/rooms/"+roomID+"/join", "bob", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"color":"black"`)

	resp, _ = do(t, app, "POST", "/api/rooms/"+roomID+"/join", "carol", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	_, err := gs.HandleMove(roomID, "alice", model.Move{From: model.Position{Row: 2, Col: 4}, To: model.Position{Row: 4, Col: 4}})
	require.NoError(t, err)

	resp, data = do(t, app, "GET", "/api/rooms/"+roomID, "carol", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var state model.RoomState
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, "evening", state.Name)
	assert.Equal(t, model.Settings{Layout: model.LayoutSet2, CaptureTheKing: false}, state.Game.Settings)
	assert.Equal(t, model.PlayerColorBlack, state.Game.ToMove)
	assert.Len(t, state.Moves, 1)
	assert.Equal(t, "alice", state.Players.White.ID)

	resp, data = do(t, app, "GET", "/api/rooms", "carol", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rooms []model.RoomSummary
	require.NoError(t, json.Unmarshal(data, &rooms))
	require.Len(t, rooms, 1)
	assert.True(t, rooms[0].Started)
	assert.Equal(t, 2, rooms[0].Players)
}

func TestCreateRoomDefaultsAndErrors(t *testing.T) {
	app, gs := newTestApp()
	roomID := createRoom(t, app, "alice", "")
	state, err := gs.GetRoomState(roomID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), state.Game.Settings)

	resp, data := do(t, app, "POST", "/api/rooms", "alice", `{"layout":"set9"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "invalid settings")

	resp, _ = do(t, app, "POST", "/api/rooms", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/rooms/nope", "alice", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetLegalMoves(t *testing.T) {
	app, _ := newTestApp()
	roomID := createRoom(t, app, "alice", "")

	resp, data := do(t, app, "GET", "/api/rooms/"+roomID+"/moves?row=1&col=4", "alice", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		From  model.Position   `json:"from"`
		Moves []model.Position `json:"moves"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, model.Position{Row: 1, Col: 4}, body.From)
	assert.ElementsMatch(t, []model.Position{{Row: 2, Col: 4}, {Row: 3, Col: 4}}, body.Moves)

	resp, _ = do(t, app, "GET", "/api/rooms/"+roomID+"/moves?row=9&col=0", "alice", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/api/rooms/"+roomID+"/moves", "alice", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBoardSVG(t *testing.T) {
	app, _ := newTestApp()
	roomID := createRoom(t, app, "alice", "")

	resp, data := do(t, app, "GET", "/api/rooms/"+roomID+"/board.svg", "alice", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, string(data), "<svg")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrRoomNotFound, fiber.StatusNotFound},
		{model.ErrNotYourTurn, fiber.StatusForbidden},
		{model.ErrWaitingForPlayer, fiber.StatusConflict},
		{model.ErrGameOver, fiber.StatusConflict},
		{fmt.Errorf("%w: rook (0,0) -> (1,1)", model.ErrIllegalMove), fiber.StatusBadRequest},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}

func TestJoinMatchmaking(t *testing.T) {
	app, _ := newTestApp()
	resp, data := do(t, app, "POST", "/api/rooms/matchmaking/join", "alice", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "queued")

	resp, _ = do(t, app, "POST", "/api/rooms/matchmaking/join", "alice", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app, _ := newTestApp()
	resp, _ := do(t, app, "GET", "/ws/rooms/abc", "alice", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

type captureConn struct {
	messages []ws.Message
}

func (c *captureConn) WriteJSON(v interface{}) error {
	c.messages = append(c.messages, v.(ws.Message))
	return nil
}

func (c *captureConn) Close() error { return nil }

func (c *captureConn) last() ws.Message {
	return c.messages[len(c.messages)-1]
}

func message(t *testing.T, typ ws.MessageType, payload string) ws.Message {
	t.Helper()
	msg := ws.Message{Type: typ}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}
	return msg
}

func TestHandleMessage(t *testing.T) {
	gs := service.NewGameService(service.NewRoomManager(model.DefaultSettings(), feed.Nop{}, 0))
	wsc := NewWebSocketController(gs)
	roomID, err := gs.CreateRoom("alice", service.CreateRoomRequest{})
	require.NoError(t, err)
	_, err = gs.JoinRoom(roomID, "bob")
	require.NoError(t, err)
	alice := &captureConn{}
	require.NoError(t, gs.RegisterConnection(roomID, "alice", alice))

	err = wsc.handleMessage(roomID, "alice", message(t, ws.MessageTypeSelect, `{"row":0,"col":1}`))
	require.NoError(t, err)
	assert.Equal(t, ws.MessageTypeLegalMoves, alice.last().Type)
	assert.JSONEq(t, `{"from":{"row":0,"col":1},"moves":[{"row":2,"col":0},{"row":2,"col":2}]}`, string(alice.last().Payload))

	err = wsc.handleMessage(roomID, "alice", message(t, ws.MessageTypeConfigure, `{"captureTheKing":false}`))
	require.NoError(t, err)

	err = wsc.handleMessage(roomID, "alice", message(t, ws.MessageTypeMove, `{"from":{"row":1,"col":4},"to":{"row":3,"col":4}}`))
	require.NoError(t, err)
	assert.Equal(t, ws.MessageTypeGameState, alice.last().Type)

	err = wsc.handleMessage(roomID, "alice", message(t, ws.MessageTypeMove, `{"from":{"row":1,"col":3},"to":{"row":3,"col":3}}`))
	assert.ErrorIs(t, err, model.ErrNotYourTurn)
	err = wsc.handleMessage(roomID, "bob", message(t, ws.MessageTypeMove, `"e5"`))
	assert.ErrorIs(t, err, model.ErrInvalidMove)
	err = wsc.handleMessage(roomID, "alice", message(t, ws.MessageTypeConfigure, `{"layout":"2"}`))
	assert.ErrorIs(t, err, model.ErrSettingsLocked)
	err = wsc.handleMessage(roomID, "bob", message(t, ws.MessageTypeReset, ""))
	assert.ErrorIs(t, err, model.ErrNotHost)
	err = wsc.handleMessage(roomID, "bob", message(t, "dance", ""))
	assert.Error(t, err)

	gs.SendError(roomID, "alice", model.ErrGameOver)
	assert.Equal(t, ws.MessageTypeError, alice.last().Type)

	require.NoError(t, wsc.handleMessage(roomID, "alice", message(t, ws.MessageTypeReset, "")))
	state, err := gs.GetRoomState(roomID)
	require.NoError(t, err)
	assert.Empty(t, state.Moves)
	assert.False(t, state.Game.Settings.CaptureTheKing)

	require.NoError(t, wsc.handleMessage(roomID, "bob", message(t, ws.MessageTypeResign, "")))
	state, err = gs.GetRoomState(roomID)
	require.NoError(t, err)
	require.NotNil(t, state.Game.Outcome)
	assert.Equal(t, model.PlayerColorWhite, state.Game.Outcome.Winner)
}

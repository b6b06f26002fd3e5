package model

import "errors"

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrGameOver          = errors.New("game is over")
	ErrPromotionRequired = errors.New("promotion piece required")
	ErrInvalidPromotion  = errors.New("invalid promotion piece")
	ErrSettingsLocked    = errors.New("settings are locked once play has started")
	ErrRoomFull          = errors.New("room is full")
	ErrNotInRoom         = errors.New("player not in room")
	ErrNotHost           = errors.New("only the host can do that")
	ErrWaitingForPlayer  = errors.New("waiting for opponent")
)

package errors

import "errors"

var (
	ErrSlotConnect      = errors.New("publish slot connection failed")
	ErrNoSlotValue      = errors.New("publish slot holds no value")
	ErrIllegalMove      = errors.New("illegal move")
	ErrUnknownStrategy  = errors.New("unknown strategy")
	ErrBadNotation      = errors.New("malformed notation")
	ErrGameOver         = errors.New("game is over")
	ErrUnknownTransport = errors.New("unknown slot transport")
)

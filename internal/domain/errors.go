package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid id")
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidLaneID  = errors.New("invalid lane id")
	ErrInvalidStage   = errors.New("invalid stage")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidActorID = errors.New("invalid actor id")
	ErrInvalidSortPos = errors.New("invalid sort position")
)

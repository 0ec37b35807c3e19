package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownStage    = errors.New("unknown stage")
	ErrNoBoardForStage = errors.New("no board configured for stage")
	ErrNoTasks         = errors.New("no tasks given")
)

package domain

import (
	"strings"
	"time"
)

// DefaultLaneName and DefaultLaneColor describe the lane created lazily for a
// board that has never held a task.
const (
	DefaultLaneName  = "General"
	DefaultLaneColor = "blue"
)

// Lane is one ordered container of tasks within a stage board.
type Lane struct {
	ID        string
	BoardID   string
	Name      string
	Color     string
	SortPos   int
	CreatedAt time.Time
}

// NewLane constructs a validated lane.
func NewLane(id, boardID, name, color string, sortPos int, now time.Time) (Lane, error) {
	id = strings.TrimSpace(id)
	boardID = strings.TrimSpace(boardID)
	name = strings.TrimSpace(name)
	if id == "" || boardID == "" {
		return Lane{}, ErrInvalidID
	}
	if name == "" {
		return Lane{}, ErrInvalidName
	}
	if sortPos < 0 {
		return Lane{}, ErrInvalidSortPos
	}
	return Lane{
		ID:        id,
		BoardID:   boardID,
		Name:      name,
		Color:     strings.TrimSpace(color),
		SortPos:   sortPos,
		CreatedAt: now.UTC(),
	}, nil
}

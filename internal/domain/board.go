package domain

import (
	"strings"
	"time"
)

// Board represents one stage board inside a pipeline. The display name packs
// a sub-pipeline family prefix and a human stage suffix around the first "-";
// routing derives both parts from the name, so the parse lives here and only
// here.
type Board struct {
	ID         string
	PipelineID string
	Name       string
	IsHQ       bool
	CreatedAt  time.Time
}

// BoardName holds the two parts packed into a board display name.
type BoardName struct {
	Family     string
	StageLabel string
}

// NewBoard constructs a validated board.
func NewBoard(id, pipelineID, name string, isHQ bool, now time.Time) (Board, error) {
	id = strings.TrimSpace(id)
	pipelineID = strings.TrimSpace(pipelineID)
	name = strings.TrimSpace(name)
	if id == "" || pipelineID == "" {
		return Board{}, ErrInvalidID
	}
	if name == "" {
		return Board{}, ErrInvalidName
	}
	return Board{
		ID:         id,
		PipelineID: pipelineID,
		Name:       name,
		IsHQ:       isHQ,
		CreatedAt:  now.UTC(),
	}, nil
}

// ParseBoardName splits one display name on the first separator. Names
// without a separator carry only a stage label and belong to the empty family.
func ParseBoardName(name string) BoardName {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, "-"); i >= 0 {
		return BoardName{
			Family:     strings.TrimSpace(name[:i]),
			StageLabel: strings.TrimSpace(name[i+1:]),
		}
	}
	return BoardName{StageLabel: name}
}

// FamilyPrefix returns the sub-pipeline discriminator part of the board name.
func (b Board) FamilyPrefix() string {
	return ParseBoardName(b.Name).Family
}

// StageSuffix returns the human stage label part of the board name.
func (b Board) StageSuffix() string {
	return ParseBoardName(b.Name).StageLabel
}

// Stage returns the canonical stage this board hosts.
func (b Board) Stage() Stage {
	return NormalizeStage(b.StageSuffix())
}

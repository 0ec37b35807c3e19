package domain

import (
	"strings"
	"time"
)

// Pipeline represents one named production line owning stage boards and
// automation rules. The display name doubles as the marker for regional
// behavioral variants.
type Pipeline struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// NewPipeline constructs a validated pipeline.
func NewPipeline(id, name string, now time.Time) (Pipeline, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Pipeline{}, ErrInvalidID
	}
	if name == "" {
		return Pipeline{}, ErrInvalidName
	}
	return Pipeline{
		ID:        id,
		Name:      name,
		CreatedAt: now.UTC(),
	}, nil
}

// MatchesRegion reports whether the pipeline name carries a regional marker.
func (p Pipeline) MatchesRegion(marker string) bool {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(marker))
}

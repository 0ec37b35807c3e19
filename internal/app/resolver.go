package app

import (
	"context"
	"fmt"
	"time"

	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

// destination is one resolved board/lane pair for a target stage.
type destination struct {
	stage domain.Stage
	board domain.Board
	lane  domain.Lane
}

// resolveContainer locates the board hosting the target stage within the same
// board family, then its first lane by sort position. HQ boards never route.
// A board without lanes gets exactly one default lane created lazily.
func (s *Service) resolveContainer(ctx context.Context, r Repository, pipelineID, family string, target domain.Stage, now time.Time) (destination, error) {
	boards, err := r.ListBoards(ctx, pipelineID)
	if err != nil {
		return destination{}, fmt.Errorf("list boards for pipeline %s: %w", pipelineID, err)
	}

	var board domain.Board
	found := false
	for _, b := range boards {
		if b.IsHQ {
			continue
		}
		name := domain.ParseBoardName(b.Name)
		if name.Family != family {
			continue
		}
		if domain.NormalizeStage(name.StageLabel) != target {
			continue
		}
		board = b
		found = true
		break
	}
	if !found {
		return destination{}, fmt.Errorf("family %q stage %q: %w", family, target, ErrNoBoardForStage)
	}

	lanes, err := r.ListLanes(ctx, board.ID)
	if err != nil {
		return destination{}, fmt.Errorf("list lanes for board %s: %w", board.ID, err)
	}
	if len(lanes) > 0 {
		return destination{stage: target, board: board, lane: lanes[0]}, nil
	}

	lane, err := domain.NewLane(s.idGen(), board.ID, s.laneName, s.laneColor, 0, now)
	if err != nil {
		return destination{}, fmt.Errorf("default lane for board %s: %w", board.ID, err)
	}
	if err := r.CreateLane(ctx, lane); err != nil {
		return destination{}, fmt.Errorf("create default lane: %w", err)
	}
	return destination{stage: target, board: board, lane: lane}, nil
}

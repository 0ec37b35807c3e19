package app

import (
	"context"
	"fmt"
	"time"

	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

const dateLayout = "2006-01-02"

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	InternalEmailDomain    string
	RegionalPipelineMarker string
	DefaultLaneName        string
	DefaultLaneColor       string
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time in the operator's business calendar. One
// routing operation samples it exactly once so every date it stamps agrees.
type Clock func() time.Time

// Service represents service data used by this package.
type Service struct {
	repo           Repository
	notifier       Notifier
	idGen          IDGenerator
	clock          Clock
	internalDomain string
	regionalMarker string
	laneName       string
	laneColor      string
}

// NewService constructs a new value for this package.
func NewService(repo Repository, notifier Notifier, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.InternalEmailDomain == "" {
		cfg.InternalEmailDomain = "centauro.tv"
	}
	if cfg.RegionalPipelineMarker == "" {
		cfg.RegionalPipelineMarker = "colombia"
	}
	if cfg.DefaultLaneName == "" {
		cfg.DefaultLaneName = domain.DefaultLaneName
	}
	if cfg.DefaultLaneColor == "" {
		cfg.DefaultLaneColor = domain.DefaultLaneColor
	}

	return &Service{
		repo:           repo,
		notifier:       notifier,
		idGen:          idGen,
		clock:          clock,
		internalDomain: cfg.InternalEmailDomain,
		regionalMarker: cfg.RegionalPipelineMarker,
		laneName:       cfg.DefaultLaneName,
		laneColor:      cfg.DefaultLaneColor,
	}
}

// AdvanceResult reports the outcome of one automatic progression.
type AdvanceResult struct {
	TaskID     string
	Moved      bool
	FromLabel  string
	StageLabel string
	BoardID    string
	LaneID     string
}

// RouteResult reports the outcome of one explicit bulk move.
type RouteResult struct {
	StageLabel string
	BoardID    string
	Moved      []string
}

// routing carries the per-operation context shared by every task transition:
// the destination container, the pipeline-variant flags resolved once by the
// caller, the acting user, and the single clock sample for the operation.
type routing struct {
	pipeline domain.Pipeline
	dest     destination
	variant  domain.MixVariant
	regional bool
	actorID  string
	now      time.Time

	// notifications queued during the transaction, dispatched after commit.
	pending *[]domain.Notification
}

// Advance moves one task to the next stage in the pipeline order. The current
// stage is derived from the board hosting the task's lane, never from the
// task's stage label. A task at the final or an unrecognized stage returns
// Moved=false without mutating anything. The whole sequence runs inside one
// transaction: a resolution failure leaves the task untouched.
func (s *Service) Advance(ctx context.Context, taskID, actorID string) (AdvanceResult, error) {
	result := AdvanceResult{TaskID: taskID}
	var pending []domain.Notification

	err := s.repo.InTransaction(ctx, func(r Repository) error {
		now := s.clock()

		task, err := r.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("load task %s: %w", taskID, err)
		}
		fromBoard, pipeline, err := s.locate(ctx, r, task)
		if err != nil {
			return err
		}
		result.FromLabel = fromBoard.StageSuffix()

		current := fromBoard.Stage()
		next, ok := domain.NextStage(current, task.VoiceTestRequired)
		if !ok {
			result.StageLabel = fromBoard.StageSuffix()
			return nil
		}

		rt, err := s.prepareRouting(ctx, r, pipeline, fromBoard.FamilyPrefix(), next, actorID, now)
		if err != nil {
			return err
		}
		rt.pending = &pending
		task, err = s.transition(ctx, r, task, fromBoard, rt)
		if err != nil {
			return err
		}

		result.Moved = true
		result.StageLabel = rt.dest.board.StageSuffix()
		result.BoardID = rt.dest.board.ID
		result.LaneID = task.LaneID
		return nil
	})
	if err != nil {
		return AdvanceResult{TaskID: taskID}, err
	}
	s.dispatch(ctx, pending)
	return result, nil
}

// RouteToStage moves a batch of tasks onto an explicitly chosen stage. The
// destination container is resolved once, from the first task's board family;
// a resolution failure aborts the whole batch before any task is touched.
func (s *Service) RouteToStage(ctx context.Context, taskIDs []string, stageLabel, actorID string) (RouteResult, error) {
	target := domain.NormalizeStage(stageLabel)
	if target == domain.StageUnknown {
		return RouteResult{}, fmt.Errorf("stage %q: %w", stageLabel, ErrUnknownStage)
	}
	if len(taskIDs) == 0 {
		return RouteResult{}, ErrNoTasks
	}

	var result RouteResult
	var pending []domain.Notification
	err := s.repo.InTransaction(ctx, func(r Repository) error {
		now := s.clock()

		first, err := r.GetTask(ctx, taskIDs[0])
		if err != nil {
			return fmt.Errorf("load task %s: %w", taskIDs[0], err)
		}
		firstBoard, pipeline, err := s.locate(ctx, r, first)
		if err != nil {
			return err
		}
		rt, err := s.prepareRouting(ctx, r, pipeline, firstBoard.FamilyPrefix(), target, actorID, now)
		if err != nil {
			return err
		}
		rt.pending = &pending

		for _, id := range taskIDs {
			task, err := r.GetTask(ctx, id)
			if err != nil {
				return fmt.Errorf("load task %s: %w", id, err)
			}
			fromBoard, _, err := s.locate(ctx, r, task)
			if err != nil {
				return err
			}
			if _, err := s.transition(ctx, r, task, fromBoard, rt); err != nil {
				return err
			}
			result.Moved = append(result.Moved, id)
		}

		result.StageLabel = rt.dest.board.StageSuffix()
		result.BoardID = rt.dest.board.ID
		return nil
	})
	if err != nil {
		return RouteResult{}, err
	}
	s.dispatch(ctx, pending)
	return result, nil
}

// TaskActivity returns the task's audit trail, newest first.
func (s *Service) TaskActivity(ctx context.Context, taskID string, limit int) ([]domain.ActivityRecord, error) {
	if _, err := s.repo.GetTask(ctx, taskID); err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	return s.repo.ListTaskActivity(ctx, taskID, limit)
}

// locate walks a task's lane up to its hosting board and pipeline.
func (s *Service) locate(ctx context.Context, r Repository, task domain.Task) (domain.Board, domain.Pipeline, error) {
	lane, err := r.GetLane(ctx, task.LaneID)
	if err != nil {
		return domain.Board{}, domain.Pipeline{}, fmt.Errorf("load lane %s: %w", task.LaneID, err)
	}
	board, err := r.GetBoard(ctx, lane.BoardID)
	if err != nil {
		return domain.Board{}, domain.Pipeline{}, fmt.Errorf("load board %s: %w", lane.BoardID, err)
	}
	pipeline, err := r.GetPipeline(ctx, board.PipelineID)
	if err != nil {
		return domain.Board{}, domain.Pipeline{}, fmt.Errorf("load pipeline %s: %w", board.PipelineID, err)
	}
	return board, pipeline, nil
}

// prepareRouting resolves the destination container and the pipeline-variant
// flags once per operation.
func (s *Service) prepareRouting(ctx context.Context, r Repository, pipeline domain.Pipeline, family string, target domain.Stage, actorID string, now time.Time) (routing, error) {
	dest, err := s.resolveContainer(ctx, r, pipeline.ID, family, target, now)
	if err != nil {
		return routing{}, err
	}
	regional := pipeline.MatchesRegion(s.regionalMarker)
	variant := domain.MixVariantDefault
	if regional {
		variant = domain.MixVariantColombia
	}
	return routing{
		pipeline: pipeline,
		dest:     dest,
		variant:  variant,
		regional: regional,
		actorID:  actorID,
		now:      now,
	}, nil
}

// transition performs one task's move into the prepared destination: exit
// stamp, container migration, privacy gate, assignment automation, and the
// audit records for the transition, in causal order.
func (s *Service) transition(ctx context.Context, r Repository, task domain.Task, fromBoard domain.Board, rt routing) (domain.Task, error) {
	today := domain.DateOnly(rt.now)
	fromLabel := fromBoard.StageSuffix()
	toLabel := rt.dest.board.StageSuffix()

	task.MarkDelivered(today, rt.now)
	if err := r.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("stamp stage exit: %w", err)
	}
	if err := r.AppendActivity(ctx, domain.ActivityRecord{
		TaskID:     task.ID,
		Type:       domain.ActivityStageExited,
		Field:      "date_delivered",
		NewValue:   today.Format(dateLayout),
		ActorID:    rt.actorID,
		BoardLabel: fromBoard.Name,
		StageLabel: fromLabel,
		CreatedAt:  rt.now,
	}); err != nil {
		return domain.Task{}, fmt.Errorf("record stage exit: %w", err)
	}

	if err := task.ArriveAt(rt.dest.lane.ID, toLabel, today, rt.now); err != nil {
		return domain.Task{}, fmt.Errorf("move task %s: %w", task.ID, err)
	}
	var onHoldFrom string
	onHold := rt.regional && (rt.dest.stage == domain.StageRecording || rt.dest.stage == domain.StageMix)
	if onHold {
		onHoldFrom = task.RegionalStatus
		task.SetRegionalStatus("on hold", rt.now)
	}
	if err := r.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("move task %s: %w", task.ID, err)
	}
	if onHold {
		if err := r.AppendActivity(ctx, domain.ActivityRecord{
			TaskID:     task.ID,
			Type:       domain.ActivityFieldSet,
			Field:      "regional_status",
			OldValue:   onHoldFrom,
			NewValue:   task.RegionalStatus,
			ActorID:    rt.actorID,
			BoardLabel: rt.dest.board.Name,
			StageLabel: toLabel,
			CreatedAt:  rt.now,
		}); err != nil {
			return domain.Task{}, fmt.Errorf("record regional hold: %w", err)
		}
	}

	updated, err := s.applyPrivacyGate(ctx, r, task, rt)
	if err != nil {
		return domain.Task{}, err
	}
	task = updated

	if err := s.applyAutomation(ctx, r, task, rt); err != nil {
		return domain.Task{}, err
	}

	if err := r.AppendActivity(ctx, domain.ActivityRecord{
		TaskID:     task.ID,
		Type:       domain.ActivityFieldSet,
		Field:      "date_assigned",
		NewValue:   today.Format(dateLayout),
		ActorID:    rt.actorID,
		BoardLabel: rt.dest.board.Name,
		StageLabel: toLabel,
		CreatedAt:  rt.now,
	}); err != nil {
		return domain.Task{}, fmt.Errorf("record assignment date: %w", err)
	}
	if err := r.AppendActivity(ctx, domain.ActivityRecord{
		TaskID:     task.ID,
		Type:       domain.ActivityStageChanged,
		Field:      "stage",
		OldValue:   fromLabel,
		NewValue:   toLabel,
		ActorID:    rt.actorID,
		BoardLabel: rt.dest.board.Name,
		StageLabel: toLabel,
		CreatedAt:  rt.now,
	}); err != nil {
		return domain.Task{}, fmt.Errorf("record stage change: %w", err)
	}

	return task, nil
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

// applyAutomation ensures the collaborators configured for the destination
// stage are assigned to the task. Already-assigned collaborators are skipped,
// so repeated calls insert nothing new. Each fresh assignee other than the
// acting user gets a notification; one people-added record lists the fresh
// assignees by display name.
func (s *Service) applyAutomation(ctx context.Context, r Repository, task domain.Task, rt routing) error {
	configured, err := r.ListAutomationCollaborators(ctx, rt.pipeline.ID, rt.dest.stage)
	if err != nil {
		return fmt.Errorf("load automation rule: %w", err)
	}
	if len(configured) == 0 {
		return nil
	}

	assigned, err := r.ListAssignedCollaborators(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}
	have := make(map[string]bool, len(assigned))
	for _, id := range assigned {
		have[id] = true
	}

	var names []string
	for _, id := range configured {
		if have[id] {
			continue
		}
		if err := r.CreateAssignment(ctx, task.ID, id, rt.now); err != nil {
			return fmt.Errorf("assign collaborator %s: %w", id, err)
		}
		have[id] = true

		name := id
		if collab, err := r.GetCollaborator(ctx, id); err == nil && collab.DisplayName != "" {
			name = collab.DisplayName
		}
		names = append(names, name)

		if id != rt.actorID && rt.pending != nil {
			*rt.pending = append(*rt.pending, domain.Notification{
				ID:          s.idGen(),
				RecipientID: id,
				Type:        "auto_assignment",
				TaskID:      task.ID,
				ActorID:     rt.actorID,
				Title:       "Assigned to " + task.Name,
				Message:     fmt.Sprintf("You were assigned to %q at %s.", task.Name, rt.dest.board.StageSuffix()),
				CreatedAt:   rt.now,
			})
		}
	}
	if len(names) == 0 {
		return nil
	}

	if err := r.AppendActivity(ctx, domain.ActivityRecord{
		TaskID:     task.ID,
		Type:       domain.ActivityPeopleAdded,
		Field:      "assignees",
		NewValue:   strings.Join(names, ", "),
		ActorID:    rt.actorID,
		BoardLabel: rt.dest.board.Name,
		StageLabel: rt.dest.board.StageSuffix(),
		CreatedAt:  rt.now,
	}); err != nil {
		return fmt.Errorf("record assignments: %w", err)
	}
	return nil
}

// dispatch sends queued notifications once the transaction has committed.
// Delivery failures are logged and never fail the move that queued them.
func (s *Service) dispatch(ctx context.Context, pending []domain.Notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range pending {
		if err := s.notifier.Notify(ctx, n); err != nil {
			log.Warn("notification dispatch failed", "recipient_id", n.RecipientID, "task_id", n.TaskID, "err", err)
		}
	}
}

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

// applyPrivacyGate re-derives restricted visibility for the task after it has
// landed in the destination container. Stale viewer bindings always go; the
// rest only runs when the destination stage owns a role slot whose assignee
// classifies as external. A collaborator without an email classifies as
// internal, failing safe toward not granting outside access.
func (s *Service) applyPrivacyGate(ctx context.Context, r Repository, task domain.Task, rt routing) (domain.Task, error) {
	if err := r.DeleteViewerBindings(ctx, task.ID); err != nil {
		return domain.Task{}, fmt.Errorf("clear viewer bindings: %w", err)
	}

	slot, ok := domain.RoleForStage(rt.dest.stage, rt.variant)
	if !ok {
		return task, nil
	}
	collabID := task.RoleAssignee(slot)
	if collabID == "" {
		return task, nil
	}
	collab, err := r.GetCollaborator(ctx, collabID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return task, nil
		}
		return domain.Task{}, fmt.Errorf("load collaborator %s: %w", collabID, err)
	}
	if !collab.IsExternal(s.internalDomain) {
		return task, nil
	}

	due := domain.NextBusinessDay(domain.DateOnly(rt.now))
	task.GrantGuestAccess(due, rt.now)
	regionalAdapting := rt.regional && rt.dest.stage == domain.StageAdapting
	var regionalFrom string
	if regionalAdapting {
		regionalFrom = task.RegionalStatus
		task.SetRegionalStatus("assigned", rt.now)
	}
	if err := r.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("grant guest access: %w", err)
	}

	if err := r.CreateViewerBinding(ctx, domain.ViewerBinding{
		ID:             s.idGen(),
		TaskID:         task.ID,
		CollaboratorID: collab.ID,
		CreatedAt:      rt.now,
	}); err != nil {
		return domain.Task{}, fmt.Errorf("bind viewer %s: %w", collab.ID, err)
	}
	if err := r.MarkAttachmentsShared(ctx, task.ID); err != nil {
		return domain.Task{}, fmt.Errorf("share attachments: %w", err)
	}

	if err := r.AppendActivity(ctx, domain.ActivityRecord{
		TaskID:     task.ID,
		Type:       domain.ActivityPrivacyChanged,
		Field:      "is_private",
		OldValue:   "false",
		NewValue:   "true",
		ActorID:    rt.actorID,
		BoardLabel: rt.dest.board.Name,
		StageLabel: rt.dest.board.StageSuffix(),
		CreatedAt:  rt.now,
	}); err != nil {
		return domain.Task{}, fmt.Errorf("record privacy change: %w", err)
	}
	if regionalAdapting {
		if err := r.AppendActivity(ctx, domain.ActivityRecord{
			TaskID:     task.ID,
			Type:       domain.ActivityFieldSet,
			Field:      "regional_status",
			OldValue:   regionalFrom,
			NewValue:   task.RegionalStatus,
			ActorID:    rt.actorID,
			BoardLabel: rt.dest.board.Name,
			StageLabel: rt.dest.board.StageSuffix(),
			CreatedAt:  rt.now,
		}); err != nil {
			return domain.Task{}, fmt.Errorf("record regional assignment: %w", err)
		}
	}

	return task, nil
}

package domain

import (
	"slices"
	"strings"
	"time"
)

// Status enumerates the working states a task can carry inside a stage.
type Status string

const (
	StatusNotStarted      Status = "not-started"
	StatusWorking         Status = "working"
	StatusDelayed         Status = "delayed"
	StatusDone            Status = "done"
	StatusPendingApproval Status = "pending-approval"
)

var validStatuses = []Status{
	StatusNotStarted,
	StatusWorking,
	StatusDelayed,
	StatusDone,
	StatusPendingApproval,
}

// Task represents one unit of production work moving through stage boards.
type Task struct {
	ID         string
	Name       string
	LaneID     string
	StageLabel string // human-facing label; may lag behind the board the task sits on
	Status     Status
	Branch     string

	TranslatorID    string
	AdapterID       string
	QCPrimaryID     string
	QCRetakesID     string
	QCMixID         string
	MixerID         string
	MixerColombiaID string

	IsPrivate         bool
	VoiceTestRequired bool
	RegionalStatus    string

	GuestDueDate  *time.Time
	DateAssigned  *time.Time
	DateDelivered *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskInput holds constructor values for new tasks.
type TaskInput struct {
	ID         string
	Name       string
	LaneID     string
	StageLabel string
	Status     Status
	Branch     string

	TranslatorID    string
	AdapterID       string
	QCPrimaryID     string
	QCRetakesID     string
	QCMixID         string
	MixerID         string
	MixerColombiaID string

	VoiceTestRequired bool
}

// NewTask constructs a validated task placed in its first lane.
func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.LaneID = strings.TrimSpace(in.LaneID)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.Name == "" {
		return Task{}, ErrInvalidName
	}
	if in.LaneID == "" {
		return Task{}, ErrInvalidLaneID
	}
	if in.Status == "" {
		in.Status = StatusNotStarted
	}
	if !slices.Contains(validStatuses, in.Status) {
		return Task{}, ErrInvalidStatus
	}

	return Task{
		ID:                in.ID,
		Name:              in.Name,
		LaneID:            in.LaneID,
		StageLabel:        strings.TrimSpace(in.StageLabel),
		Status:            in.Status,
		Branch:            strings.TrimSpace(in.Branch),
		TranslatorID:      strings.TrimSpace(in.TranslatorID),
		AdapterID:         strings.TrimSpace(in.AdapterID),
		QCPrimaryID:       strings.TrimSpace(in.QCPrimaryID),
		QCRetakesID:       strings.TrimSpace(in.QCRetakesID),
		QCMixID:           strings.TrimSpace(in.QCMixID),
		MixerID:           strings.TrimSpace(in.MixerID),
		MixerColombiaID:   strings.TrimSpace(in.MixerColombiaID),
		VoiceTestRequired: in.VoiceTestRequired,
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
	}, nil
}

// RoleAssignee returns the collaborator id held by one role slot, or "".
func (t *Task) RoleAssignee(slot RoleSlot) string {
	switch slot {
	case RoleTranslator:
		return t.TranslatorID
	case RoleAdapter:
		return t.AdapterID
	case RoleQCPrimary:
		return t.QCPrimaryID
	case RoleQCRetakes:
		return t.QCRetakesID
	case RoleQCMix:
		return t.QCMixID
	case RoleMixer:
		return t.MixerID
	case RoleMixerColombia:
		return t.MixerColombiaID
	default:
		return ""
	}
}

// MarkDelivered stamps the stage-exit date on the current record. The stamp
// is cleared again by ArriveAt; a lingering non-nil DateDelivered means the
// task was marked as exited without completing its move.
func (t *Task) MarkDelivered(day time.Time, now time.Time) {
	d := day
	t.DateDelivered = &d
	t.UpdatedAt = now.UTC()
}

// ArriveAt lands the task in its destination lane: status resets to the stage
// default, the human label follows the destination board, the assignment date
// is stamped, and delivery/guest dates are cleared.
func (t *Task) ArriveAt(laneID, stageLabel string, day time.Time, now time.Time) error {
	laneID = strings.TrimSpace(laneID)
	if laneID == "" {
		return ErrInvalidLaneID
	}
	d := day
	t.LaneID = laneID
	t.StageLabel = strings.TrimSpace(stageLabel)
	t.Status = StatusNotStarted
	t.DateAssigned = &d
	t.DateDelivered = nil
	t.GuestDueDate = nil
	t.IsPrivate = false
	t.UpdatedAt = now.UTC()
	return nil
}

// GrantGuestAccess flips the task to restricted visibility with a guest due date.
func (t *Task) GrantGuestAccess(due time.Time, now time.Time) {
	d := due
	t.IsPrivate = true
	t.GuestDueDate = &d
	t.UpdatedAt = now.UTC()
}

// SetRegionalStatus updates the pipeline-specific sub-status field.
func (t *Task) SetRegionalStatus(status string, now time.Time) {
	t.RegionalStatus = strings.TrimSpace(status)
	t.UpdatedAt = now.UTC()
}

package domain

import "time"

// ActivityType tags one audit ledger entry.
type ActivityType string

const (
	ActivityStageExited    ActivityType = "stage_exited"
	ActivityStageChanged   ActivityType = "stage_changed"
	ActivityFieldSet       ActivityType = "field_set"
	ActivityPeopleAdded    ActivityType = "people_added"
	ActivityPrivacyChanged ActivityType = "privacy_changed"
)

// ActivityRecord is one immutable audit entry. The engine appends records as
// a side effect of every mutation it performs; nothing updates or deletes them.
type ActivityRecord struct {
	ID         int64
	TaskID     string
	Type       ActivityType
	Field      string
	OldValue   string
	NewValue   string
	ActorID    string
	BoardLabel string
	StageLabel string
	CreatedAt  time.Time
}

// ViewerBinding grants one collaborator restricted visibility on one task.
// Only bindings relevant to the task's current stage may exist at a time.
type ViewerBinding struct {
	ID             string
	TaskID         string
	CollaboratorID string
	CreatedAt      time.Time
}

// Attachment references one file hanging off a task. Only the
// external-access flag matters to this engine; storage of bytes lives
// elsewhere.
type Attachment struct {
	ID             string
	TaskID         string
	FileName       string
	ExternalAccess bool
	CreatedAt      time.Time
}

// AutomationRule lists the collaborators to ensure-assigned when a task
// enters a stage of a pipeline. Read-only to the engine.
type AutomationRule struct {
	PipelineID      string
	Stage           Stage
	CollaboratorIDs []string
}

// Notification is one fire-and-forget message handed to the dispatch port.
type Notification struct {
	ID          string
	RecipientID string
	Type        string
	TaskID      string
	ActorID     string
	Title       string
	Message     string
	CreatedAt   time.Time
}

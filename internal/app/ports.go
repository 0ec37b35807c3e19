package app

import (
	"context"
	"time"

	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

// Repository represents repository data used by this package. InTransaction
// runs fn against a transaction-scoped Repository and commits only when fn
// returns nil; every read and write of one routing operation goes through it.
type Repository interface {
	InTransaction(context.Context, func(Repository) error) error

	CreatePipeline(context.Context, domain.Pipeline) error
	GetPipeline(context.Context, string) (domain.Pipeline, error)

	CreateBoard(context.Context, domain.Board) error
	GetBoard(context.Context, string) (domain.Board, error)
	ListBoards(context.Context, string) ([]domain.Board, error)

	CreateLane(context.Context, domain.Lane) error
	GetLane(context.Context, string) (domain.Lane, error)
	ListLanes(context.Context, string) ([]domain.Lane, error)

	CreateTask(context.Context, domain.Task) error
	UpdateTask(context.Context, domain.Task) error
	GetTask(context.Context, string) (domain.Task, error)

	CreateCollaborator(context.Context, domain.Collaborator) error
	GetCollaborator(context.Context, string) (domain.Collaborator, error)

	SetAutomationRule(context.Context, domain.AutomationRule) error
	ListAutomationCollaborators(context.Context, string, domain.Stage) ([]string, error)
	ListAssignedCollaborators(context.Context, string) ([]string, error)
	CreateAssignment(context.Context, string, string, time.Time) error

	DeleteViewerBindings(context.Context, string) error
	CreateViewerBinding(context.Context, domain.ViewerBinding) error
	ListViewerBindings(context.Context, string) ([]domain.ViewerBinding, error)

	CreateAttachment(context.Context, domain.Attachment) error
	MarkAttachmentsShared(context.Context, string) error

	AppendActivity(context.Context, domain.ActivityRecord) error
	ListTaskActivity(context.Context, string, int) ([]domain.ActivityRecord, error)
}

// Notifier dispatches assignment notifications. Delivery is fire-and-forget:
// the engine logs failures and keeps going.
type Notifier interface {
	Notify(context.Context, domain.Notification) error
}

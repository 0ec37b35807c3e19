package sqlite

import (
	"context"
	"fmt"

	"github.com/CentauroTech/centaurus-sub001/internal/domain"
)

// Notifier persists notifications into the shared store. Delivery transport
// is someone else's problem; a row in the notifications table is the handoff.
type Notifier struct {
	repo *Repository
}

// NewNotifier constructs a new value for this package.
func NewNotifier(repo *Repository) *Notifier {
	return &Notifier{repo: repo}
}

// Notify records one notification.
func (n *Notifier) Notify(ctx context.Context, note domain.Notification) error {
	_, err := n.repo.q().ExecContext(ctx, `
		INSERT INTO notifications(id, recipient_id, type, task_id, actor_id, title, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		note.ID,
		note.RecipientID,
		note.Type,
		note.TaskID,
		note.ActorID,
		note.Title,
		note.Message,
		ts(note.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

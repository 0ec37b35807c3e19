package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CentauroTech/centaurus-sub001/internal/app"
	"github.com/CentauroTech/centaurus-sub001/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository represents repository data used by this package. A nil tx means
// statements run directly against the pool; InTransaction hands out a
// tx-scoped copy so one routing operation commits or rolls back as a unit.
type Repository struct {
	db *sql.DB
	tx *sql.Tx
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS pipelines (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			pipeline_id TEXT NOT NULL,
			name TEXT NOT NULL,
			is_hq INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			FOREIGN KEY(pipeline_id) REFERENCES pipelines(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS lanes (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			sort_pos INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY(board_id) REFERENCES boards(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS collaborators (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lane_id TEXT NOT NULL,
			stage_label TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			branch TEXT NOT NULL DEFAULT '',
			translator_id TEXT NOT NULL DEFAULT '',
			adapter_id TEXT NOT NULL DEFAULT '',
			qc_primary_id TEXT NOT NULL DEFAULT '',
			qc_retakes_id TEXT NOT NULL DEFAULT '',
			qc_mix_id TEXT NOT NULL DEFAULT '',
			mixer_id TEXT NOT NULL DEFAULT '',
			mixer_colombia_id TEXT NOT NULL DEFAULT '',
			is_private INTEGER NOT NULL DEFAULT 0,
			voice_test_required INTEGER NOT NULL DEFAULT 0,
			regional_status TEXT NOT NULL DEFAULT '',
			guest_due_date TEXT,
			date_assigned TEXT,
			date_delivered TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(lane_id) REFERENCES lanes(id)
		);`,
		`CREATE TABLE IF NOT EXISTS automation_rules (
			pipeline_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			position INTEGER NOT NULL,
			collaborator_id TEXT NOT NULL,
			PRIMARY KEY(pipeline_id, stage, collaborator_id)
		);`,
		`CREATE TABLE IF NOT EXISTS assignments (
			task_id TEXT NOT NULL,
			collaborator_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY(task_id, collaborator_id),
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS viewer_bindings (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			collaborator_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS attachments (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			external_access INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL,
			type TEXT NOT NULL,
			field TEXT NOT NULL DEFAULT '',
			old_value TEXT NOT NULL DEFAULT '',
			new_value TEXT NOT NULL DEFAULT '',
			actor_id TEXT NOT NULL DEFAULT '',
			board_label TEXT NOT NULL DEFAULT '',
			stage_label TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_task ON activity_log(task_id, id);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			recipient_id TEXT NOT NULL,
			type TEXT NOT NULL,
			task_id TEXT NOT NULL,
			actor_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// dbtx represents the statement contract shared by DB and Tx.
type dbtx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *Repository) q() dbtx {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InTransaction runs fn inside one transaction. A nested call joins the
// already-open transaction instead of starting a second one.
func (r *Repository) InTransaction(ctx context.Context, fn func(app.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite tx: %w", err)
	}
	scoped := &Repository{db: r.db, tx: tx}
	if err := fn(scoped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite tx: %w", err)
	}
	return nil
}

// CreatePipeline creates pipeline.
func (r *Repository) CreatePipeline(ctx context.Context, p domain.Pipeline) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO pipelines(id, name, created_at) VALUES (?, ?, ?)
	`, p.ID, p.Name, ts(p.CreatedAt))
	return err
}

// GetPipeline returns pipeline.
func (r *Repository) GetPipeline(ctx context.Context, id string) (domain.Pipeline, error) {
	row := r.q().QueryRowContext(ctx, `
		SELECT id, name, created_at FROM pipelines WHERE id = ?
	`, id)
	var p domain.Pipeline
	var createdRaw string
	if err := row.Scan(&p.ID, &p.Name, &createdRaw); err != nil {
		return domain.Pipeline{}, translateScanErr(err)
	}
	p.CreatedAt = parseTS(createdRaw)
	return p, nil
}

// CreateBoard creates board.
func (r *Repository) CreateBoard(ctx context.Context, b domain.Board) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO boards(id, pipeline_id, name, is_hq, created_at) VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.PipelineID, b.Name, boolInt(b.IsHQ), ts(b.CreatedAt))
	return err
}

// GetBoard returns board.
func (r *Repository) GetBoard(ctx context.Context, id string) (domain.Board, error) {
	row := r.q().QueryRowContext(ctx, `
		SELECT id, pipeline_id, name, is_hq, created_at FROM boards WHERE id = ?
	`, id)
	return scanBoard(row)
}

// ListBoards lists the boards of one pipeline.
func (r *Repository) ListBoards(ctx context.Context, pipelineID string) ([]domain.Board, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT id, pipeline_id, name, is_hq, created_at FROM boards
		WHERE pipeline_id = ?
		ORDER BY name
	`, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateLane creates lane.
func (r *Repository) CreateLane(ctx context.Context, l domain.Lane) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO lanes(id, board_id, name, color, sort_pos, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, l.ID, l.BoardID, l.Name, l.Color, l.SortPos, ts(l.CreatedAt))
	return err
}

// GetLane returns lane.
func (r *Repository) GetLane(ctx context.Context, id string) (domain.Lane, error) {
	row := r.q().QueryRowContext(ctx, `
		SELECT id, board_id, name, color, sort_pos, created_at FROM lanes WHERE id = ?
	`, id)
	return scanLane(row)
}

// ListLanes lists one board's lanes ordered by sort position.
func (r *Repository) ListLanes(ctx context.Context, boardID string) ([]domain.Lane, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT id, board_id, name, color, sort_pos, created_at FROM lanes
		WHERE board_id = ?
		ORDER BY sort_pos, id
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lane
	for rows.Next() {
		l, err := scanLane(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateTask creates task.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO tasks(
			id, name, lane_id, stage_label, status, branch,
			translator_id, adapter_id, qc_primary_id, qc_retakes_id, qc_mix_id, mixer_id, mixer_colombia_id,
			is_private, voice_test_required, regional_status,
			guest_due_date, date_assigned, date_delivered, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.Name, t.LaneID, t.StageLabel, string(t.Status), t.Branch,
		t.TranslatorID, t.AdapterID, t.QCPrimaryID, t.QCRetakesID, t.QCMixID, t.MixerID, t.MixerColombiaID,
		boolInt(t.IsPrivate), boolInt(t.VoiceTestRequired), t.RegionalStatus,
		nullableTS(t.GuestDueDate), nullableTS(t.DateAssigned), nullableTS(t.DateDelivered),
		ts(t.CreatedAt), ts(t.UpdatedAt),
	)
	return err
}

// UpdateTask updates task.
func (r *Repository) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.q().ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, lane_id = ?, stage_label = ?, status = ?, branch = ?,
		    translator_id = ?, adapter_id = ?, qc_primary_id = ?, qc_retakes_id = ?, qc_mix_id = ?, mixer_id = ?, mixer_colombia_id = ?,
		    is_private = ?, voice_test_required = ?, regional_status = ?,
		    guest_due_date = ?, date_assigned = ?, date_delivered = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Name, t.LaneID, t.StageLabel, string(t.Status), t.Branch,
		t.TranslatorID, t.AdapterID, t.QCPrimaryID, t.QCRetakesID, t.QCMixID, t.MixerID, t.MixerColombiaID,
		boolInt(t.IsPrivate), boolInt(t.VoiceTestRequired), t.RegionalStatus,
		nullableTS(t.GuestDueDate), nullableTS(t.DateAssigned), nullableTS(t.DateDelivered), ts(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetTask returns task.
func (r *Repository) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.q().QueryRowContext(ctx, `
		SELECT
			id, name, lane_id, stage_label, status, branch,
			translator_id, adapter_id, qc_primary_id, qc_retakes_id, qc_mix_id, mixer_id, mixer_colombia_id,
			is_private, voice_test_required, regional_status,
			guest_due_date, date_assigned, date_delivered, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`, id)
	return scanTask(row)
}

// CreateCollaborator creates collaborator.
func (r *Repository) CreateCollaborator(ctx context.Context, c domain.Collaborator) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO collaborators(id, display_name, email, created_at) VALUES (?, ?, ?, ?)
	`, c.ID, c.DisplayName, c.Email, ts(c.CreatedAt))
	return err
}

// GetCollaborator returns collaborator.
func (r *Repository) GetCollaborator(ctx context.Context, id string) (domain.Collaborator, error) {
	row := r.q().QueryRowContext(ctx, `
		SELECT id, display_name, email, created_at FROM collaborators WHERE id = ?
	`, id)
	var c domain.Collaborator
	var createdRaw string
	if err := row.Scan(&c.ID, &c.DisplayName, &c.Email, &createdRaw); err != nil {
		return domain.Collaborator{}, translateScanErr(err)
	}
	c.CreatedAt = parseTS(createdRaw)
	return c, nil
}

// SetAutomationRule replaces the configured collaborators for one
// pipeline/stage pair; ordering follows the given slice.
func (r *Repository) SetAutomationRule(ctx context.Context, rule domain.AutomationRule) error {
	if _, err := r.q().ExecContext(ctx, `
		DELETE FROM automation_rules WHERE pipeline_id = ? AND stage = ?
	`, rule.PipelineID, string(rule.Stage)); err != nil {
		return err
	}
	for i, collaboratorID := range rule.CollaboratorIDs {
		if _, err := r.q().ExecContext(ctx, `
			INSERT INTO automation_rules(pipeline_id, stage, position, collaborator_id) VALUES (?, ?, ?, ?)
		`, rule.PipelineID, string(rule.Stage), i, collaboratorID); err != nil {
			return err
		}
	}
	return nil
}

// ListAutomationCollaborators lists the configured collaborator ids for one
// pipeline/stage pair in rule order.
func (r *Repository) ListAutomationCollaborators(ctx context.Context, pipelineID string, stage domain.Stage) ([]string, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT collaborator_id FROM automation_rules
		WHERE pipeline_id = ? AND stage = ?
		ORDER BY position
	`, pipelineID, string(stage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// ListAssignedCollaborators lists the collaborator ids assigned to one task.
func (r *Repository) ListAssignedCollaborators(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT collaborator_id FROM assignments WHERE task_id = ? ORDER BY created_at, collaborator_id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// CreateAssignment creates assignment.
func (r *Repository) CreateAssignment(ctx context.Context, taskID, collaboratorID string, at time.Time) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT OR IGNORE INTO assignments(task_id, collaborator_id, created_at) VALUES (?, ?, ?)
	`, taskID, collaboratorID, ts(at))
	return err
}

// DeleteViewerBindings removes every viewer binding of one task.
func (r *Repository) DeleteViewerBindings(ctx context.Context, taskID string) error {
	_, err := r.q().ExecContext(ctx, `
		DELETE FROM viewer_bindings WHERE task_id = ?
	`, taskID)
	return err
}

// CreateViewerBinding creates viewer binding.
func (r *Repository) CreateViewerBinding(ctx context.Context, b domain.ViewerBinding) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO viewer_bindings(id, task_id, collaborator_id, created_at) VALUES (?, ?, ?, ?)
	`, b.ID, b.TaskID, b.CollaboratorID, ts(b.CreatedAt))
	return err
}

// ListViewerBindings lists one task's viewer bindings.
func (r *Repository) ListViewerBindings(ctx context.Context, taskID string) ([]domain.ViewerBinding, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT id, task_id, collaborator_id, created_at FROM viewer_bindings
		WHERE task_id = ?
		ORDER BY created_at, id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ViewerBinding
	for rows.Next() {
		var b domain.ViewerBinding
		var createdRaw string
		if err := rows.Scan(&b.ID, &b.TaskID, &b.CollaboratorID, &createdRaw); err != nil {
			return nil, err
		}
		b.CreatedAt = parseTS(createdRaw)
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateAttachment creates attachment.
func (r *Repository) CreateAttachment(ctx context.Context, a domain.Attachment) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO attachments(id, task_id, file_name, external_access, created_at) VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.TaskID, a.FileName, boolInt(a.ExternalAccess), ts(a.CreatedAt))
	return err
}

// MarkAttachmentsShared flips every attachment of one task to externally
// accessible. A task without attachments is not an error.
func (r *Repository) MarkAttachmentsShared(ctx context.Context, taskID string) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE attachments SET external_access = 1 WHERE task_id = ?
	`, taskID)
	return err
}

// ListAttachments lists one task's attachments.
func (r *Repository) ListAttachments(ctx context.Context, taskID string) ([]domain.Attachment, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT id, task_id, file_name, external_access, created_at FROM attachments
		WHERE task_id = ?
		ORDER BY created_at, id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		var external int
		var createdRaw string
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &external, &createdRaw); err != nil {
			return nil, err
		}
		a.ExternalAccess = external != 0
		a.CreatedAt = parseTS(createdRaw)
		out = append(out, a)
	}
	return out, rows.Err()
}

// AppendActivity appends one audit ledger record.
func (r *Repository) AppendActivity(ctx context.Context, rec domain.ActivityRecord) error {
	_, err := r.q().ExecContext(ctx, `
		INSERT INTO activity_log(task_id, type, field, old_value, new_value, actor_id, board_label, stage_label, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.TaskID,
		string(rec.Type),
		rec.Field,
		rec.OldValue,
		rec.NewValue,
		rec.ActorID,
		rec.BoardLabel,
		rec.StageLabel,
		ts(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert activity record: %w", err)
	}
	return nil
}

// ListTaskActivity lists one task's audit records newest first. A non-positive
// limit returns everything.
func (r *Repository) ListTaskActivity(ctx context.Context, taskID string, limit int) ([]domain.ActivityRecord, error) {
	query := `
		SELECT id, task_id, type, field, old_value, new_value, actor_id, board_label, stage_label, created_at
		FROM activity_log
		WHERE task_id = ?
		ORDER BY id DESC
	`
	args := []any{taskID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		var typeRaw, createdRaw string
		if err := rows.Scan(&rec.ID, &rec.TaskID, &typeRaw, &rec.Field, &rec.OldValue, &rec.NewValue, &rec.ActorID, &rec.BoardLabel, &rec.StageLabel, &createdRaw); err != nil {
			return nil, err
		}
		rec.Type = domain.ActivityType(typeRaw)
		rec.CreatedAt = parseTS(createdRaw)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListNotifications lists one recipient's notifications newest first.
func (r *Repository) ListNotifications(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT id, recipient_id, type, task_id, actor_id, title, message, created_at
		FROM notifications
		WHERE recipient_id = ?
		ORDER BY created_at DESC, id
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdRaw string
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.TaskID, &n.ActorID, &n.Title, &n.Message, &createdRaw); err != nil {
			return nil, err
		}
		n.CreatedAt = parseTS(createdRaw)
		out = append(out, n)
	}
	return out, rows.Err()
}

// scanner represents the row contract shared by Row and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBoard(s scanner) (domain.Board, error) {
	var b domain.Board
	var isHQ int
	var createdRaw string
	if err := s.Scan(&b.ID, &b.PipelineID, &b.Name, &isHQ, &createdRaw); err != nil {
		return domain.Board{}, translateScanErr(err)
	}
	b.IsHQ = isHQ != 0
	b.CreatedAt = parseTS(createdRaw)
	return b, nil
}

func scanLane(s scanner) (domain.Lane, error) {
	var l domain.Lane
	var createdRaw string
	if err := s.Scan(&l.ID, &l.BoardID, &l.Name, &l.Color, &l.SortPos, &createdRaw); err != nil {
		return domain.Lane{}, translateScanErr(err)
	}
	l.CreatedAt = parseTS(createdRaw)
	return l, nil
}

func scanTask(s scanner) (domain.Task, error) {
	var t domain.Task
	var statusRaw string
	var isPrivate, voiceTest int
	var guestDue, assigned, delivered sql.NullString
	var createdRaw, updatedRaw string
	err := s.Scan(
		&t.ID, &t.Name, &t.LaneID, &t.StageLabel, &statusRaw, &t.Branch,
		&t.TranslatorID, &t.AdapterID, &t.QCPrimaryID, &t.QCRetakesID, &t.QCMixID, &t.MixerID, &t.MixerColombiaID,
		&isPrivate, &voiceTest, &t.RegionalStatus,
		&guestDue, &assigned, &delivered, &createdRaw, &updatedRaw,
	)
	if err != nil {
		return domain.Task{}, translateScanErr(err)
	}
	t.Status = domain.Status(statusRaw)
	t.IsPrivate = isPrivate != 0
	t.VoiceTestRequired = voiceTest != 0
	t.GuestDueDate = parseNullTS(guestDue)
	t.DateAssigned = parseNullTS(assigned)
	t.DateDelivered = parseNullTS(delivered)
	t.CreatedAt = parseTS(createdRaw)
	t.UpdatedAt = parseTS(updatedRaw)
	return t, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

func translateScanErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return app.ErrNotFound
	}
	return err
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullableTS handles nullable ts.
func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	parsed := parseTS(v.String)
	return &parsed
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/CentauroTech/centaurus-sub001/internal/app"
	"github.com/CentauroTech/centaurus-sub001/internal/domain"
	_ "modernc.org/sqlite"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "centaurus.db")
	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestRepository_PipelineBoardLaneTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	pipeline, err := domain.NewPipeline("p1", "Centauro Miami", now)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	if err := repo.CreatePipeline(ctx, pipeline); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}

	board, err := domain.NewBoard("b1", "p1", "MIA-Breakdown", false, now)
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	if err := repo.CreateBoard(ctx, board); err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}

	lane, err := domain.NewLane("l1", "b1", "General", "blue", 0, now)
	if err != nil {
		t.Fatalf("NewLane() error = %v", err)
	}
	if err := repo.CreateLane(ctx, lane); err != nil {
		t.Fatalf("CreateLane() error = %v", err)
	}

	due := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(domain.TaskInput{
		ID:           "t1",
		Name:         "EP 101",
		LaneID:       "l1",
		StageLabel:   "Breakdown",
		Branch:       "MIA",
		TranslatorID: "c1",
	}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	task.GrantGuestAccess(due, now)
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	loaded, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if loaded.Name != "EP 101" || loaded.LaneID != "l1" || loaded.TranslatorID != "c1" {
		t.Fatalf("unexpected task %+v", loaded)
	}
	if !loaded.IsPrivate {
		t.Fatal("IsPrivate not persisted")
	}
	if loaded.GuestDueDate == nil || !loaded.GuestDueDate.Equal(due) {
		t.Fatalf("GuestDueDate = %v, want %v", loaded.GuestDueDate, due)
	}
	if loaded.DateDelivered != nil {
		t.Fatalf("DateDelivered = %v, want nil", loaded.DateDelivered)
	}

	loadedBoard, err := repo.GetBoard(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBoard() error = %v", err)
	}
	if loadedBoard.Stage() != domain.StageBreakdown {
		t.Fatalf("board stage = %q, want breakdown", loadedBoard.Stage())
	}

	lanes, err := repo.ListLanes(ctx, "b1")
	if err != nil {
		t.Fatalf("ListLanes() error = %v", err)
	}
	if len(lanes) != 1 || lanes[0].ID != "l1" {
		t.Fatalf("lanes = %+v, want the created lane", lanes)
	}

	if _, err := repo.GetTask(ctx, "missing"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("GetTask(missing) error = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateTask(ctx, domain.Task{ID: "missing", Name: "x", LaneID: "l1", Status: domain.StatusWorking}); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("UpdateTask(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_LaneOrdering(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	pipeline, _ := domain.NewPipeline("p1", "Centauro Miami", now)
	if err := repo.CreatePipeline(ctx, pipeline); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	board, _ := domain.NewBoard("b1", "p1", "MIA-Recording", false, now)
	if err := repo.CreateBoard(ctx, board); err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}
	for i, id := range []string{"l-c", "l-a", "l-b"} {
		lane, err := domain.NewLane(id, "b1", "Lane "+id, "blue", 10-i, now)
		if err != nil {
			t.Fatalf("NewLane() error = %v", err)
		}
		if err := repo.CreateLane(ctx, lane); err != nil {
			t.Fatalf("CreateLane() error = %v", err)
		}
	}

	lanes, err := repo.ListLanes(ctx, "b1")
	if err != nil {
		t.Fatalf("ListLanes() error = %v", err)
	}
	if len(lanes) != 3 || lanes[0].ID != "l-b" {
		t.Fatalf("lanes = %+v, want lowest sort position first", lanes)
	}
}

func TestRepository_AutomationAndAssignments(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	pipeline, _ := domain.NewPipeline("p1", "Centauro Miami", now)
	if err := repo.CreatePipeline(ctx, pipeline); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	board, _ := domain.NewBoard("b1", "p1", "MIA-Traducción", false, now)
	if err := repo.CreateBoard(ctx, board); err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}
	lane, _ := domain.NewLane("l1", "b1", "General", "blue", 0, now)
	if err := repo.CreateLane(ctx, lane); err != nil {
		t.Fatalf("CreateLane() error = %v", err)
	}
	task, _ := domain.NewTask(domain.TaskInput{ID: "t1", Name: "EP 101", LaneID: "l1"}, now)
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	rule := domain.AutomationRule{
		PipelineID:      "p1",
		Stage:           domain.StageTranslation,
		CollaboratorIDs: []string{"c2", "c1"},
	}
	if err := repo.SetAutomationRule(ctx, rule); err != nil {
		t.Fatalf("SetAutomationRule() error = %v", err)
	}
	configured, err := repo.ListAutomationCollaborators(ctx, "p1", domain.StageTranslation)
	if err != nil {
		t.Fatalf("ListAutomationCollaborators() error = %v", err)
	}
	if len(configured) != 2 || configured[0] != "c2" || configured[1] != "c1" {
		t.Fatalf("configured = %v, want rule order preserved", configured)
	}

	if err := repo.CreateAssignment(ctx, "t1", "c1", now); err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	// Duplicate insert is a no-op.
	if err := repo.CreateAssignment(ctx, "t1", "c1", now.Add(time.Minute)); err != nil {
		t.Fatalf("CreateAssignment() duplicate error = %v", err)
	}
	assigned, err := repo.ListAssignedCollaborators(ctx, "t1")
	if err != nil {
		t.Fatalf("ListAssignedCollaborators() error = %v", err)
	}
	if len(assigned) != 1 || assigned[0] != "c1" {
		t.Fatalf("assigned = %v, want one c1", assigned)
	}

	// Assignment listing follows the given timestamps, not insertion order.
	if err := repo.CreateAssignment(ctx, "t1", "c0", now.Add(-time.Hour)); err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	assigned, err = repo.ListAssignedCollaborators(ctx, "t1")
	if err != nil {
		t.Fatalf("ListAssignedCollaborators() error = %v", err)
	}
	if len(assigned) != 2 || assigned[0] != "c0" || assigned[1] != "c1" {
		t.Fatalf("assigned = %v, want [c0 c1]", assigned)
	}
}

func TestRepository_OpenInMemoryCollaboratorRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	collab := domain.Collaborator{ID: "c1", DisplayName: "Ana", Email: "ana@centauro.tv", CreatedAt: now}
	if err := repo.CreateCollaborator(ctx, collab); err != nil {
		t.Fatalf("CreateCollaborator() error = %v", err)
	}

	loaded, err := repo.GetCollaborator(ctx, "c1")
	if err != nil {
		t.Fatalf("GetCollaborator() error = %v", err)
	}
	if loaded.DisplayName != "Ana" || loaded.Email != "ana@centauro.tv" {
		t.Fatalf("unexpected collaborator %+v", loaded)
	}
	if !loaded.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", loaded.CreatedAt, now)
	}

	if _, err := repo.GetCollaborator(ctx, "missing"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("GetCollaborator(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_ViewerBindingsAndAttachments(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	pipeline, _ := domain.NewPipeline("p1", "Centauro Miami", now)
	if err := repo.CreatePipeline(ctx, pipeline); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	board, _ := domain.NewBoard("b1", "p1", "MIA-Mezcla", false, now)
	if err := repo.CreateBoard(ctx, board); err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}
	lane, _ := domain.NewLane("l1", "b1", "General", "blue", 0, now)
	if err := repo.CreateLane(ctx, lane); err != nil {
		t.Fatalf("CreateLane() error = %v", err)
	}
	task, _ := domain.NewTask(domain.TaskInput{ID: "t1", Name: "EP 101", LaneID: "l1"}, now)
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	for _, id := range []string{"v1", "v2"} {
		if err := repo.CreateViewerBinding(ctx, domain.ViewerBinding{ID: id, TaskID: "t1", CollaboratorID: "c-" + id, CreatedAt: now}); err != nil {
			t.Fatalf("CreateViewerBinding() error = %v", err)
		}
	}
	bindings, err := repo.ListViewerBindings(ctx, "t1")
	if err != nil {
		t.Fatalf("ListViewerBindings() error = %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("bindings = %d, want 2", len(bindings))
	}
	if err := repo.DeleteViewerBindings(ctx, "t1"); err != nil {
		t.Fatalf("DeleteViewerBindings() error = %v", err)
	}
	bindings, err = repo.ListViewerBindings(ctx, "t1")
	if err != nil {
		t.Fatalf("ListViewerBindings() error = %v", err)
	}
	if len(bindings) != 0 {
		t.Fatalf("bindings after delete = %d, want 0", len(bindings))
	}

	if err := repo.CreateAttachment(ctx, domain.Attachment{ID: "a1", TaskID: "t1", FileName: "script.docx", CreatedAt: now}); err != nil {
		t.Fatalf("CreateAttachment() error = %v", err)
	}
	if err := repo.MarkAttachmentsShared(ctx, "t1"); err != nil {
		t.Fatalf("MarkAttachmentsShared() error = %v", err)
	}
	attachments, err := repo.ListAttachments(ctx, "t1")
	if err != nil {
		t.Fatalf("ListAttachments() error = %v", err)
	}
	if len(attachments) != 1 || !attachments[0].ExternalAccess {
		t.Fatalf("attachments = %+v, want one externally accessible", attachments)
	}
}

func TestRepository_ActivityLogNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	types := []domain.ActivityType{
		domain.ActivityStageExited,
		domain.ActivityFieldSet,
		domain.ActivityStageChanged,
	}
	for _, typ := range types {
		if err := repo.AppendActivity(ctx, domain.ActivityRecord{
			TaskID:    "t1",
			Type:      typ,
			ActorID:   "u1",
			CreatedAt: now,
		}); err != nil {
			t.Fatalf("AppendActivity(%q) error = %v", typ, err)
		}
	}

	records, err := repo.ListTaskActivity(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("ListTaskActivity() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].Type != domain.ActivityStageChanged || records[2].Type != domain.ActivityStageExited {
		t.Fatalf("records out of order: %+v", records)
	}

	limited, err := repo.ListTaskActivity(ctx, "t1", 1)
	if err != nil {
		t.Fatalf("ListTaskActivity(limit) error = %v", err)
	}
	if len(limited) != 1 || limited[0].Type != domain.ActivityStageChanged {
		t.Fatalf("limited = %+v, want only the newest record", limited)
	}
}

func TestRepository_InTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	pipeline, _ := domain.NewPipeline("p1", "Centauro Miami", now)
	if err := repo.CreatePipeline(ctx, pipeline); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	board, _ := domain.NewBoard("b1", "p1", "MIA-Breakdown", false, now)
	if err := repo.CreateBoard(ctx, board); err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}
	lane, _ := domain.NewLane("l1", "b1", "General", "blue", 0, now)
	if err := repo.CreateLane(ctx, lane); err != nil {
		t.Fatalf("CreateLane() error = %v", err)
	}
	task, _ := domain.NewTask(domain.TaskInput{ID: "t1", Name: "EP 101", LaneID: "l1"}, now)
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	failure := errors.New("boom")
	err := repo.InTransaction(ctx, func(r app.Repository) error {
		task.MarkDelivered(now, now)
		if err := r.UpdateTask(ctx, task); err != nil {
			return err
		}
		if err := r.AppendActivity(ctx, domain.ActivityRecord{TaskID: "t1", Type: domain.ActivityStageExited, CreatedAt: now}); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("InTransaction() error = %v, want the callback failure", err)
	}

	loaded, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if loaded.DateDelivered != nil {
		t.Fatal("rolled-back delivery stamp persisted")
	}
	records, err := repo.ListTaskActivity(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("ListTaskActivity() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want none after rollback", len(records))
	}
}

func TestRepository_ServiceAdvanceEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)

	pipeline, _ := domain.NewPipeline("p1", "Centauro Miami", now)
	if err := repo.CreatePipeline(ctx, pipeline); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	for _, b := range []struct{ id, name string }{
		{"b-break", "MIA-Breakdown"},
		{"b-rec", "MIA-Recording"},
	} {
		board, err := domain.NewBoard(b.id, "p1", b.name, false, now)
		if err != nil {
			t.Fatalf("NewBoard() error = %v", err)
		}
		if err := repo.CreateBoard(ctx, board); err != nil {
			t.Fatalf("CreateBoard() error = %v", err)
		}
		lane, err := domain.NewLane("lane-"+b.id, b.id, "General", "blue", 0, now)
		if err != nil {
			t.Fatalf("NewLane() error = %v", err)
		}
		if err := repo.CreateLane(ctx, lane); err != nil {
			t.Fatalf("CreateLane() error = %v", err)
		}
	}
	task, _ := domain.NewTask(domain.TaskInput{ID: "t1", Name: "EP 101", LaneID: "lane-b-break"}, now)
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	seq := 0
	svc := app.NewService(repo, NewNotifier(repo), func() string {
		seq++
		return "id-" + string(rune('a'+seq))
	}, func() time.Time { return now }, app.ServiceConfig{})

	res, err := svc.Advance(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if !res.Moved || res.StageLabel != "Recording" {
		t.Fatalf("Advance() = %+v, want a move to Recording", res)
	}

	moved, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if moved.LaneID != "lane-b-rec" {
		t.Fatalf("task lane = %q, want lane-b-rec", moved.LaneID)
	}
	records, err := repo.ListTaskActivity(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("ListTaskActivity() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want stage exit, date assigned, stage change", len(records))
	}
}

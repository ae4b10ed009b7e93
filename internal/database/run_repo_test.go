package database

import (
	"errors"
	"testing"

	"scenecast/internal/models"
)

func newTestRun(id string) *models.RunManifest {
	return &models.RunManifest{
		ID:           id,
		OpeningTitle: "My Show",
		Sources: []models.SceneSource{
			{Kind: models.SceneOpening, Title: "Opening", BaseImagePath: "opening.png"},
		},
		Config: models.DefaultRenderConfig(),
		Status: models.RunQueued,
		Phase:  "queued",
	}
}

func TestRunRepositoryCreateAndGetByID(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	run := newTestRun("run-1")

	if err := repo.Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID("run-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ID != "run-1" || got.OpeningTitle != "My Show" {
		t.Errorf("got = %+v", got)
	}
	if len(got.Sources) != 1 || got.Sources[0].BaseImagePath != "opening.png" {
		t.Errorf("Sources round-trip failed: %+v", got.Sources)
	}
	if got.Status != models.RunQueued {
		t.Errorf("Status = %q, want %q", got.Status, models.RunQueued)
	}
	if got.Scenes != nil {
		t.Errorf("Scenes = %v, want nil for a run with no persisted scene plan", got.Scenes)
	}
}

func TestRunRepositoryGetByIDUnknownIsErrRunNotFound(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	_, err := repo.GetByID("does-not-exist")
	if !errors.Is(err, models.ErrRunNotFound) {
		t.Fatalf("err = %v, want models.ErrRunNotFound", err)
	}
}

func TestRunRepositoryUpdateProgress(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	run := newTestRun("run-2")
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdateProgress("run-2", models.RunProcessing, "rendering", 0.4); err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}

	got, err := repo.GetByID("run-2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.RunProcessing || got.Phase != "rendering" || got.Progress != 0.4 {
		t.Errorf("got = %+v", got)
	}
}

func TestRunRepositoryCompleteSuccessAndFailure(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	ok := newTestRun("run-ok")
	if err := repo.Create(ok); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Complete("run-ok", "/out/run-ok.mp4", ""); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	got, err := repo.GetByID("run-ok")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.RunCompleted || got.OutputPath != "/out/run-ok.mp4" {
		t.Errorf("got = %+v", got)
	}

	failed := newTestRun("run-bad")
	if err := repo.Create(failed); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Complete("run-bad", "", "render scene failed"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	got, err = repo.GetByID("run-bad")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != models.RunFailed || got.Error != "render scene failed" {
		t.Errorf("got = %+v", got)
	}
}

func TestRunRepositoryGetNextPendingReturnsOldestQueued(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	for _, id := range []string{"run-a", "run-b"} {
		if err := repo.Create(newTestRun(id)); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}
	// Mark run-a already processed so it's out of the queue.
	if err := repo.Complete("run-a", "/out/run-a.mp4", ""); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	next, err := repo.GetNextPending()
	if err != nil {
		t.Fatalf("GetNextPending() error = %v", err)
	}
	if next == nil {
		t.Fatal("GetNextPending() = nil, want run-b")
	}
	if next.ID != "run-b" {
		t.Errorf("next.ID = %q, want run-b", next.ID)
	}
}

func TestRunRepositoryGetNextPendingEmptyQueueReturnsNilNil(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	next, err := repo.GetNextPending()
	if err != nil {
		t.Fatalf("GetNextPending() error = %v, want nil error for an empty queue", err)
	}
	if next != nil {
		t.Fatalf("next = %+v, want nil", next)
	}
}

func TestRunRepositoryListOrdersNewestFirst(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	if err := repo.Create(newTestRun("run-old")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(newTestRun("run-new")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	runs, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-new" || runs[1].ID != "run-old" {
		t.Errorf("List() order = [%s %s], want [run-new run-old]", runs[0].ID, runs[1].ID)
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/services"
)

func newVersionFixture(t *testing.T) (services.VersionService, *fakeDocRepo, *fakeVersionRepo, *fakeCache, string) {
	t.Helper()
	docRepo, permRepo, docID := seedAccessFixture(t)
	versionRepo := newFakeVersionRepo()
	cache := newFakeCache()
	gate := NewAccessGate(docRepo, permRepo, testLogger())
	svc := NewVersionService(versionRepo, docRepo, gate, cache, testLogger())
	return svc, docRepo, versionRepo, cache, docID
}

func TestCreateVersionAssignsSequentialNumbers(t *testing.T) {
	svc, _, _, _, docID := newVersionFixture(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		v, err := svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{
			Content: textDelta("draft"),
		})
		if err != nil {
			t.Fatalf("CreateVersion #%d: %v", want, err)
		}
		if v.VersionNumber != want {
			t.Errorf("VersionNumber = %d, want %d", v.VersionNumber, want)
		}
	}
}

func TestCreateVersionValidation(t *testing.T) {
	svc, _, _, _, docID := newVersionFixture(t)
	ctx := context.Background()

	_, err := svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty content: err = %v, want ErrValidation", err)
	}

	_, err = svc.CreateVersion(ctx, "viewer", docID, &services.CreateVersionRequest{
		Content: textDelta("draft"),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("viewer create: err = %v, want ErrForbidden", err)
	}
}

// Two clients race to pin the same version number. Exactly one insert
// succeeds; the loser gets a conflict, never a second row.
func TestCreateVersionPinnedNumberRace(t *testing.T) {
	svc, _, versionRepo, _, docID := newVersionFixture(t)
	ctx := context.Background()

	const racers = 2
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{
				Content:       textDelta("snapshot"),
				VersionNumber: 1,
			})
		}(i)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrConflict):
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || conflictCount != 1 {
		t.Fatalf("got %d successes and %d conflicts, want exactly 1 of each", okCount, conflictCount)
	}

	list, err := versionRepo.ListByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("stored %d versions, want 1", len(list))
	}
}

func TestDiffSelfIsEmpty(t *testing.T) {
	svc, _, _, _, docID := newVersionFixture(t)
	ctx := context.Background()

	v, err := svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{
		Content: models.Delta{Ops: ops("hello", "world")},
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	changes, err := svc.Diff(ctx, "creator", docID, v.ID, v.ID)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("diff of a version with itself = %d changes, want 0", len(changes))
	}
}

func TestDiffRejectsForeignVersion(t *testing.T) {
	svc, docRepo, versionRepo, _, docID := newVersionFixture(t)
	ctx := context.Background()

	v1, err := svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{
		Content: textDelta("mine"),
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	other := &models.Document{Title: "other", CreatedBy: "creator"}
	if err := docRepo.Create(ctx, other); err != nil {
		t.Fatalf("seed other document: %v", err)
	}
	foreign := &models.DocumentVersion{
		DocumentID: other.ID,
		Content:    textDelta("theirs"),
		CreatedBy:  "creator",
	}
	if err := versionRepo.Create(ctx, foreign); err != nil {
		t.Fatalf("seed foreign version: %v", err)
	}

	_, err = svc.Diff(ctx, "creator", docID, v1.ID, foreign.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("diff across documents: err = %v, want ErrNotFound", err)
	}
}

func TestRestoreOverwritesContentAndDropsCache(t *testing.T) {
	svc, docRepo, _, cache, docID := newVersionFixture(t)
	ctx := context.Background()

	snapshot := textDelta("the good draft")
	v, err := svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{
		Content: snapshot,
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	if err := docRepo.UpdateContent(ctx, docID, textDelta("a later mess")); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	cache.Set(docID, textDelta("in-flight edits"))

	doc, err := svc.Restore(ctx, "editor", docID, v.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !doc.Content.Equal(snapshot) {
		t.Errorf("restored content = %+v, want the snapshot verbatim", doc.Content)
	}
	if _, ok := cache.Snapshot(docID); ok {
		t.Error("restore should invalidate the transient cache")
	}

	// Restore does not mint a new version row.
	list, err := svc.ListVersions(ctx, "creator", docID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("restore created a version row: %d rows, want 1", len(list))
	}
}

func TestRestoreRequiresWrite(t *testing.T) {
	svc, _, _, _, docID := newVersionFixture(t)
	ctx := context.Background()

	v, err := svc.CreateVersion(ctx, "creator", docID, &services.CreateVersionRequest{
		Content: textDelta("draft"),
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	if _, err := svc.Restore(ctx, "viewer", docID, v.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("viewer restore: err = %v, want ErrForbidden", err)
	}
}

func TestUpdateVersionCreatorOnly(t *testing.T) {
	svc, _, _, _, docID := newVersionFixture(t)
	ctx := context.Background()

	v, err := svc.CreateVersion(ctx, "editor", docID, &services.CreateVersionRequest{
		Content: textDelta("draft"),
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	desc := "updated"
	if _, err := svc.UpdateVersion(ctx, "creator", v.ID, &services.UpdateVersionRequest{
		ChangeDescription: &desc,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("document creator editing another user's version: err = %v, want ErrForbidden", err)
	}

	got, err := svc.UpdateVersion(ctx, "editor", v.ID, &services.UpdateVersionRequest{
		ChangeDescription: &desc,
	})
	if err != nil {
		t.Fatalf("UpdateVersion: %v", err)
	}
	if got.ChangeDescription != desc {
		t.Errorf("ChangeDescription = %q, want %q", got.ChangeDescription, desc)
	}

	if err := svc.DeleteVersion(ctx, "creator", v.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("document creator deleting another user's version: err = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteVersion(ctx, "editor", v.ID); err != nil {
		t.Fatalf("DeleteVersion: %v", err)
	}
}

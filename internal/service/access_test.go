package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"coscribe/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedAccessFixture creates one document owned by "creator" with an editor
// grant for "editor" and a viewer grant for "viewer".
func seedAccessFixture(t *testing.T) (*fakeDocRepo, *fakePermRepo, string) {
	t.Helper()
	ctx := context.Background()

	docRepo := newFakeDocRepo()
	permRepo := newFakePermRepo()

	doc := &models.Document{Title: "notes", CreatedBy: "creator"}
	if err := docRepo.Create(ctx, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	if err := permRepo.Create(ctx, &models.Permission{
		UserID: "editor", DocumentID: doc.ID, AccessType: models.AccessEditor,
	}); err != nil {
		t.Fatalf("seed editor grant: %v", err)
	}
	if err := permRepo.Create(ctx, &models.Permission{
		UserID: "viewer", DocumentID: doc.ID, AccessType: models.AccessViewer,
	}); err != nil {
		t.Fatalf("seed viewer grant: %v", err)
	}

	return docRepo, permRepo, doc.ID
}

func TestAccessGateTruthTable(t *testing.T) {
	docRepo, permRepo, docID := seedAccessFixture(t)
	gate := NewAccessGate(docRepo, permRepo, testLogger())
	ctx := context.Background()

	tests := []struct {
		userID    string
		canRead   bool
		canWrite  bool
		canShare  bool
		canVersio bool
	}{
		{"creator", true, true, true, true},
		{"editor", true, true, false, true},
		{"viewer", true, false, false, false},
		{"stranger", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			got, err := gate.CanRead(ctx, tt.userID, docID)
			if err != nil {
				t.Fatalf("CanRead: %v", err)
			}
			if got != tt.canRead {
				t.Errorf("CanRead = %v, want %v", got, tt.canRead)
			}

			got, err = gate.CanWrite(ctx, tt.userID, docID)
			if err != nil {
				t.Fatalf("CanWrite: %v", err)
			}
			if got != tt.canWrite {
				t.Errorf("CanWrite = %v, want %v", got, tt.canWrite)
			}

			got, err = gate.CanShare(ctx, tt.userID, docID)
			if err != nil {
				t.Fatalf("CanShare: %v", err)
			}
			if got != tt.canShare {
				t.Errorf("CanShare = %v, want %v", got, tt.canShare)
			}

			got, err = gate.CanVersion(ctx, tt.userID, docID)
			if err != nil {
				t.Fatalf("CanVersion: %v", err)
			}
			if got != tt.canVersio {
				t.Errorf("CanVersion = %v, want %v", got, tt.canVersio)
			}
		})
	}
}

func TestAccessGateMissingDocument(t *testing.T) {
	gate := NewAccessGate(newFakeDocRepo(), newFakePermRepo(), testLogger())

	if _, err := gate.CanRead(context.Background(), "creator", "no-such-doc"); err == nil {
		t.Fatal("CanRead on a missing document should propagate the lookup error")
	}
}

func TestAccessGateManageVersion(t *testing.T) {
	docRepo, permRepo, docID := seedAccessFixture(t)
	gate := NewAccessGate(docRepo, permRepo, testLogger())
	ctx := context.Background()

	v := &models.DocumentVersion{DocumentID: docID, CreatedBy: "editor"}

	ok, err := gate.CanManageVersion(ctx, "editor", v)
	if err != nil {
		t.Fatalf("CanManageVersion: %v", err)
	}
	if !ok {
		t.Error("the version's creator should manage it")
	}

	// Owning the document is not enough; the version belongs to its creator.
	ok, err = gate.CanManageVersion(ctx, "creator", v)
	if err != nil {
		t.Fatalf("CanManageVersion: %v", err)
	}
	if ok {
		t.Error("the document creator should not manage someone else's version")
	}
}

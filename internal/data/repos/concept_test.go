package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/data/repos/testutil"
	"github.com/yungbote/edusummarize-backend/internal/domain"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
)

func TestConceptRepoCreateMissingChapter(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewConceptRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	_, err := repo.Create(dbc, []*domain.Concept{
		{ChapterID: uuid.New(), ConceptName: "Orphan"},
	})
	if !errors.Is(err, apperrors.ErrIntegrity) {
		t.Fatalf("want ErrIntegrity, got %v", err)
	}
}

func TestConceptRepoSetUnderstood(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewConceptRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	c := testutil.SeedConcept(t, ctx, tx, ch.ID, "Momentum")

	updated, err := repo.SetUnderstood(dbc, c.ID, true)
	if err != nil {
		t.Fatalf("set understood: %v", err)
	}
	if updated == nil || !updated.IsUnderstood {
		t.Fatalf("expected understood concept, got %+v", updated)
	}
}

func TestConceptRepoSetUnderstoodMissing(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewConceptRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	updated, err := repo.SetUnderstood(dbc, uuid.New(), true)
	if err != nil {
		t.Fatalf("set understood: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for missing concept, got %+v", updated)
	}
}

func TestConceptRepoResetByChapterID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewConceptRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	other := testutil.SeedChapter(t, ctx, tx, book.ID, 2)

	a := testutil.SeedConcept(t, ctx, tx, ch.ID, "Momentum")
	b := testutil.SeedConcept(t, ctx, tx, other.ID, "Energy")
	if _, err := repo.SetUnderstood(dbc, a.ID, true); err != nil {
		t.Fatalf("set understood a: %v", err)
	}
	if _, err := repo.SetUnderstood(dbc, b.ID, true); err != nil {
		t.Fatalf("set understood b: %v", err)
	}

	if err := repo.ResetByChapterID(dbc, ch.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	gotA, err := repo.GetByID(dbc, a.ID)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if gotA.IsUnderstood {
		t.Fatalf("expected concept in reset chapter to be cleared")
	}
	gotB, err := repo.GetByID(dbc, b.ID)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if !gotB.IsUnderstood {
		t.Fatalf("expected concept in other chapter untouched")
	}
}

package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edusummarize-backend/internal/data/repos/testutil"
	apperrors "github.com/yungbote/edusummarize-backend/internal/pkg/errors"
	"github.com/yungbote/edusummarize-backend/internal/platform/dbctx"
)

func TestUserProgressCreatesRowOnFirstTouch(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewUserProgressRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	progress, err := repo.UpdateProgress(dbc, book.ID, &ch.ID)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if got := progress.CompletedList(); len(got) != 0 {
		t.Fatalf("first visit should leave the completed set empty, got %v", got)
	}
	if progress.LastChapterID == nil || *progress.LastChapterID != ch.ID {
		t.Fatalf("expected last chapter pointer set")
	}

	// The chapter joins the completed set on the next visit.
	progress, err = repo.UpdateProgress(dbc, book.ID, &ch.ID)
	if err != nil {
		t.Fatalf("update progress again: %v", err)
	}
	if got := progress.CompletedList(); len(got) != 1 || got[0] != ch.ID {
		t.Fatalf("unexpected completed list after second visit: %v", got)
	}
}

func TestUserProgressCompletionIsIdempotent(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewUserProgressRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	for i := 0; i < 3; i++ {
		if _, err := repo.UpdateProgress(dbc, book.ID, &ch.ID); err != nil {
			t.Fatalf("update progress (%d): %v", i, err)
		}
	}

	progress, err := repo.GetByBookID(dbc, book.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := progress.CompletedList(); len(got) != 1 {
		t.Fatalf("expected 1 completed chapter after repeats, got %d", len(got))
	}
}

func TestUserProgressMissingBook(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewUserProgressRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	id := uuid.New()
	_, err := repo.UpdateProgress(dbc, uuid.New(), &id)
	if !errors.Is(err, apperrors.ErrIntegrity) {
		t.Fatalf("want ErrIntegrity, got %v", err)
	}
}

func TestUserProgressMalformedCompletedDecodesEmpty(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewUserProgressRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	testutil.SeedMalformedProgress(t, ctx, tx, book.ID)

	progress, err := repo.UpdateProgress(dbc, book.ID, &ch.ID)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if got := progress.CompletedList(); len(got) != 1 || got[0] != ch.ID {
		t.Fatalf("expected malformed payload replaced by fresh list, got %v", got)
	}
}

func TestUserProgressRemoveCompleted(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewUserProgressRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch1 := testutil.SeedChapter(t, ctx, tx, book.ID, 1)
	ch2 := testutil.SeedChapter(t, ctx, tx, book.ID, 2)
	testutil.SeedProgress(t, ctx, tx, book.ID, []uuid.UUID{ch1.ID, ch2.ID})

	progress, err := repo.RemoveCompleted(dbc, book.ID, ch1.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := progress.CompletedList(); len(got) != 1 || got[0] != ch2.ID {
		t.Fatalf("unexpected completed list after removal: %v", got)
	}
}

func TestUserProgressRemoveWithoutRow(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewUserProgressRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	book := testutil.SeedBook(t, ctx, tx, "Physics")
	ch := testutil.SeedChapter(t, ctx, tx, book.ID, 1)

	progress, err := repo.RemoveCompleted(dbc, book.ID, ch.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if progress != nil {
		t.Fatalf("expected nil when no progress row exists, got %+v", progress)
	}
}

package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/donelist/backend/domain"
)

func newTestRepo(t *testing.T) *todoRepository {
	t.Helper()

	db, err := bbolt.Open(filepath.Join(t.TempDir(), "todos.db"), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewTodoRepository(db)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}

	r := repo.(*todoRepository)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	step := 0
	r.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return r
}

func TestList_EmptyStoreReturnsEmptySlice(t *testing.T) {
	repo := newTestRepo(t)

	todos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if todos == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(todos) != 0 {
		t.Fatalf("expected no todos, got %d", len(todos))
	}
}

func TestCreateAndList_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := repo.Create(ctx, text); err != nil {
			t.Fatalf("Create(%q) returned error: %v", text, err)
		}
	}

	todos, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(todos))
	}
	for i, want := range []string{"third", "second", "first"} {
		if todos[i].Text != want {
			t.Fatalf("position %d: got %q want %q", i, todos[i].Text, want)
		}
	}
}

func TestCreate_TrimsAndDefaults(t *testing.T) {
	repo := newTestRepo(t)

	todo, err := repo.Create(context.Background(), "  buy milk \t")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if todo.Text != "buy milk" {
		t.Fatalf("expected trimmed text, got %q", todo.Text)
	}
	if todo.Completed {
		t.Fatal("new todo must not be completed")
	}
	if _, err := uuid.Parse(todo.ID); err != nil {
		t.Fatalf("id is not a uuid: %q", todo.ID)
	}
	if todo.CreatedAt.IsZero() {
		t.Fatal("created_at not assigned")
	}
}

func TestCreate_BlankTextRejected(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Create(context.Background(), "   "); !errors.Is(err, domain.ErrTextRequired) {
		t.Fatalf("expected ErrTextRequired, got %v", err)
	}

	todos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(todos) != 0 {
		t.Fatalf("rejected create must not persist, store has %d items", len(todos))
	}
}

func TestFindByText_CaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Buy Milk")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	other, err := repo.Create(ctx, "Walk Dog")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	found, err := repo.FindByText(ctx, "buy milk", other.ID)
	if err != nil {
		t.Fatalf("FindByText returned error: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected to find %q, got %+v", created.ID, found)
	}

	// The probed item itself is excluded.
	found, err = repo.FindByText(ctx, "BUY MILK", created.ID)
	if err != nil {
		t.Fatalf("FindByText returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected no match when excluding the owner, got %+v", found)
	}

	found, err = repo.FindByText(ctx, "does not exist", other.ID)
	if err != nil {
		t.Fatalf("FindByText returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected no match, got %+v", found)
	}
}

func TestFindByText_MalformedExcludeID(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.FindByText(context.Background(), "anything", "not-a-uuid"); !errors.Is(err, domain.ErrInvalidTodoID) {
		t.Fatalf("expected ErrInvalidTodoID, got %v", err)
	}
}

func TestUpdateByID_Text(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "draft")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	newer, err := repo.Create(ctx, "newer")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := repo.UpdateByID(ctx, created.ID, domain.PatchText("  final  "))
	if err != nil {
		t.Fatalf("UpdateByID returned error: %v", err)
	}
	if updated.Text != "final" {
		t.Fatalf("expected trimmed text %q, got %q", "final", updated.Text)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not touch created_at")
	}
	if updated.Completed != created.Completed {
		t.Fatal("text update must not touch completed")
	}

	// Renaming must not move the item in the listing order.
	todos, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != newer.ID || todos[1].ID != created.ID {
		t.Fatalf("unexpected order after update: %+v", todos)
	}
	if todos[1].Text != "final" {
		t.Fatalf("listing shows stale text %q", todos[1].Text)
	}
}

func TestUpdateByID_Completed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "toggle me")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := repo.UpdateByID(ctx, created.ID, domain.PatchCompleted(true))
	if err != nil {
		t.Fatalf("UpdateByID returned error: %v", err)
	}
	if !updated.Completed {
		t.Fatal("expected completed=true")
	}
	if updated.Text != "toggle me" {
		t.Fatalf("completed update must not touch text, got %q", updated.Text)
	}
}

func TestUpdateByID_BlankTextRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "keep me")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := repo.UpdateByID(ctx, created.ID, domain.PatchText(" \t ")); !errors.Is(err, domain.ErrTextRequired) {
		t.Fatalf("expected ErrTextRequired, got %v", err)
	}

	todos, _ := repo.List(ctx)
	if todos[0].Text != "keep me" {
		t.Fatalf("rejected update must not persist, got %q", todos[0].Text)
	}
}

func TestUpdateByID_ZeroPatchRejected(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.UpdateByID(context.Background(), uuid.NewString(), domain.TodoPatch{}); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestUpdateByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.UpdateByID(context.Background(), uuid.NewString(), domain.PatchText("x")); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestUpdateByID_MalformedID(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.UpdateByID(context.Background(), "42", domain.PatchText("x")); !errors.Is(err, domain.ErrInvalidTodoID) {
		t.Fatalf("expected ErrInvalidTodoID, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, "stays")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := repo.Create(ctx, "goes")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	removed, err := repo.DeleteByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}
	if removed.ID != second.ID || removed.Text != "goes" {
		t.Fatalf("unexpected removed item: %+v", removed)
	}

	todos, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != first.ID {
		t.Fatalf("expected only %q to remain, got %+v", first.ID, todos)
	}

	if _, err := repo.DeleteByID(ctx, second.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}

func TestDeleteByID_MalformedID(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.DeleteByID(context.Background(), "nope"); !errors.Is(err, domain.ErrInvalidTodoID) {
		t.Fatalf("expected ErrInvalidTodoID, got %v", err)
	}
}

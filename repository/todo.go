package repository

import (
	"context"

	"github.com/donelist/backend/domain"
)

// TodoRepository is the persistence contract for todo items. Implementations
// validate id-typed arguments against their identifier format and report
// malformed ones as domain.ErrInvalidTodoID before touching storage.
type TodoRepository interface {
	// List returns every stored todo, newest first. An empty store yields
	// an empty (non-nil) slice.
	List(ctx context.Context) ([]domain.Todo, error)

	// Create trims text, assigns id and creation time, and persists the
	// item. Text blank after trimming is rejected with domain.ErrTextRequired.
	Create(ctx context.Context, text string) (*domain.Todo, error)

	// FindByText returns a todo whose text equals the given text under
	// case-insensitive comparison, skipping the item with excludeID.
	// It returns (nil, nil) when no other item matches.
	FindByText(ctx context.Context, text, excludeID string) (*domain.Todo, error)

	// UpdateByID applies the patch to the matching item in a single atomic
	// write and returns the item as stored afterwards.
	UpdateByID(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)

	// DeleteByID removes the matching item atomically and returns it.
	DeleteByID(ctx context.Context, id string) (*domain.Todo, error)
}

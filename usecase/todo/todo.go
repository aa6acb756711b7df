package todo

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/donelist/backend/domain"
	appLogger "github.com/donelist/backend/pkg/logger"
	"github.com/donelist/backend/repository"
)

// UseCase coordinates validation and persistence for todo operations.
type UseCase struct {
	todos  repository.TodoRepository
	logger *zap.Logger
}

func New(todos repository.TodoRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		logger: logger,
	}
}

// ListTodos returns every todo, newest first.
func (uc *UseCase) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	return uc.todos.List(ctx)
}

// CreateTodo persists a new todo built from text. Text blank after trimming
// is rejected; duplicate text is allowed on create.
func (uc *UseCase) CreateTodo(ctx context.Context, text string) (*domain.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrTextRequired
	}
	return uc.todos.Create(ctx, text)
}

// UpdateTodoText renames a todo. The new text must be non-blank after
// trimming and must not collide case-insensitively with any other todo.
// The duplicate probe runs before the target is resolved, so a colliding
// text is rejected even when the target id does not exist.
func (uc *UseCase) UpdateTodoText(ctx context.Context, id, text string) (*domain.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrTextRequired
	}

	existing, err := uc.todos.FindByText(ctx, text, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		appLogger.WithRequestID(ctx, uc.logger).Debug("duplicate text rejected",
			zap.String("todo_id", id),
			zap.String("conflicting_id", existing.ID),
		)
		return nil, domain.ErrDuplicateText
	}

	return uc.todos.UpdateByID(ctx, id, domain.PatchText(text))
}

// SetTodoCompleted flips the completed flag. Completion changes never
// trigger the duplicate-text check.
func (uc *UseCase) SetTodoCompleted(ctx context.Context, id string, completed bool) (*domain.Todo, error) {
	return uc.todos.UpdateByID(ctx, id, domain.PatchCompleted(completed))
}

// DeleteTodo removes a todo and returns it.
func (uc *UseCase) DeleteTodo(ctx context.Context, id string) (*domain.Todo, error) {
	return uc.todos.DeleteByID(ctx, id)
}

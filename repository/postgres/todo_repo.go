package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donelist/backend/domain"
	"github.com/donelist/backend/repository"
)

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository returns a Postgres-backed implementation of TodoRepository.
func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	const query = `
	SELECT id, text, completed, created_at
	FROM todos
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *todoRepository) Create(ctx context.Context, text string) (*domain.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrTextRequired
	}

	todo := domain.Todo{
		ID:   uuid.NewString(),
		Text: text,
	}

	const query = `
	INSERT INTO todos (id, text)
	VALUES ($1, $2)
	RETURNING completed, created_at
	`
	if err := r.pool.QueryRow(ctx, query, todo.ID, todo.Text).Scan(&todo.Completed, &todo.CreatedAt); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) FindByText(ctx context.Context, text, excludeID string) (*domain.Todo, error) {
	if excludeID != "" {
		if _, err := uuid.Parse(excludeID); err != nil {
			return nil, domain.ErrInvalidTodoID
		}
	}

	const query = `
	SELECT id, text, completed, created_at
	FROM todos
	WHERE LOWER(text) = LOWER($1)
	  AND id <> $2
	LIMIT 1
	`
	todo, err := scanTodo(r.pool.QueryRow(ctx, query, strings.TrimSpace(text), excludeID))
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return todo, nil
}

func (r *todoRepository) UpdateByID(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidTodoID
	}

	if text, ok := patch.Text(); ok {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, domain.ErrTextRequired
		}
		const query = `
		UPDATE todos
		SET text = $2
		WHERE id = $1
		RETURNING id, text, completed, created_at
		`
		return scanTodo(r.pool.QueryRow(ctx, query, id, text))
	}

	if completed, ok := patch.Completed(); ok {
		const query = `
		UPDATE todos
		SET completed = $2
		WHERE id = $1
		RETURNING id, text, completed, created_at
		`
		return scanTodo(r.pool.QueryRow(ctx, query, id, completed))
	}

	return nil, domain.ErrInvalidPayload
}

func (r *todoRepository) DeleteByID(ctx context.Context, id string) (*domain.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidTodoID
	}

	const query = `
	DELETE FROM todos
	WHERE id = $1
	RETURNING id, text, completed, created_at
	`
	return scanTodo(r.pool.QueryRow(ctx, query, id))
}

func scanTodo(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Todo, error) {
	var todo domain.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.Text,
		&todo.Completed,
		&todo.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

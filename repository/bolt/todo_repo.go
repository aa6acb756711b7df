package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/donelist/backend/domain"
	"github.com/donelist/backend/repository"
)

const todosBucket = "todos"

// todoRepository stores todos as JSON documents in a single bucket. Keys
// embed the creation timestamp so a reverse cursor walk yields newest-first
// order without sorting.
type todoRepository struct {
	db     *bbolt.DB
	bucket []byte

	now   func() time.Time
	newID func() string
}

// NewTodoRepository returns a BoltDB-backed implementation of TodoRepository.
// It ensures the todos bucket exists.
func NewTodoRepository(db *bbolt.DB) (repository.TodoRepository, error) {
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(todosBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &todoRepository{
		db:     db,
		bucket: []byte(todosBucket),
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

func (r *todoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(r.bucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var todo domain.Todo
			if err := json.Unmarshal(v, &todo); err != nil {
				return err
			}
			todos = append(todos, todo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *todoRepository) Create(ctx context.Context, text string) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrTextRequired
	}

	todo := domain.Todo{
		ID:        r.newID(),
		Text:      text,
		CreatedAt: r.now().UTC(),
	}
	payload, err := json.Marshal(todo)
	if err != nil {
		return nil, err
	}

	if err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(r.bucket).Put(itemKey(todo), payload)
	}); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) FindByText(ctx context.Context, text, excludeID string) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if excludeID != "" {
		if _, err := uuid.Parse(excludeID); err != nil {
			return nil, domain.ErrInvalidTodoID
		}
	}

	text = strings.TrimSpace(text)

	var found *domain.Todo
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(r.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var todo domain.Todo
			if err := json.Unmarshal(v, &todo); err != nil {
				return err
			}
			if todo.ID == excludeID {
				continue
			}
			if strings.EqualFold(todo.Text, text) {
				found = &todo
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *todoRepository) UpdateByID(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidTodoID
	}

	text, hasText := patch.Text()
	if hasText {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, domain.ErrTextRequired
		}
	}
	completed, hasCompleted := patch.Completed()
	if !hasText && !hasCompleted {
		return nil, domain.ErrInvalidPayload
	}

	var updated *domain.Todo
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		key, todo, err := findByID(b, id)
		if err != nil {
			return err
		}
		if key == nil {
			return domain.ErrTodoNotFound
		}

		if hasText {
			todo.Text = text
		} else {
			todo.Completed = completed
		}

		payload, err := json.Marshal(todo)
		if err != nil {
			return err
		}
		if err := b.Put(key, payload); err != nil {
			return err
		}
		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *todoRepository) DeleteByID(ctx context.Context, id string) (*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidTodoID
	}

	var removed *domain.Todo
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		key, todo, err := findByID(b, id)
		if err != nil {
			return err
		}
		if key == nil {
			return domain.ErrTodoNotFound
		}
		if err := b.Delete(key); err != nil {
			return err
		}
		removed = todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// findByID walks the bucket looking for the todo with the given id. It
// returns a copy of the bucket key so the caller may use it after the
// cursor moves on.
func findByID(b *bbolt.Bucket, id string) ([]byte, *domain.Todo, error) {
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var todo domain.Todo
		if err := json.Unmarshal(v, &todo); err != nil {
			return nil, nil, err
		}
		if todo.ID == id {
			key := append([]byte(nil), k...)
			return key, &todo, nil
		}
	}
	return nil, nil, nil
}

func itemKey(todo domain.Todo) []byte {
	return []byte(fmt.Sprintf("%020d_%s", todo.CreatedAt.UnixNano(), todo.ID))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/donelist/backend/api/transport"
	"github.com/donelist/backend/domain"
	"github.com/donelist/backend/pkg/httpcontext"
	todoUC "github.com/donelist/backend/usecase/todo"
)

type TodoHandler struct {
	baseHandler
	uc *todoUC.UseCase
}

func NewTodoHandler(uc *todoUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// GetTodos returns the full list, newest first.
func (h *TodoHandler) GetTodos(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todos, err := h.uc.ListTodos(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, todos)
}

// CreateTodo adds a todo from the request text and returns it with 201.
func (h *TodoHandler) CreateTodo(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.CreateTodoRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	created, err := h.uc.CreateTodo(stdCtx, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// UpdateTodo applies a single-field change: text when present, otherwise
// the completed flag. A body carrying neither is rejected the same way as
// blank text.
func (h *TodoHandler) UpdateTodo(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := h.todoID(ctx)
	if id == "" {
		return
	}

	var req transport.UpdateTodoRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	var (
		updated *domain.Todo
		err     error
	)
	switch {
	case req.Text != nil:
		updated, err = h.uc.UpdateTodoText(stdCtx, id, *req.Text)
	case req.Completed != nil:
		updated, err = h.uc.SetTodoCompleted(stdCtx, id, *req.Completed)
	default:
		err = domain.ErrTextRequired
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// DeleteTodo removes a todo and confirms with a message body.
func (h *TodoHandler) DeleteTodo(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := h.todoID(ctx)
	if id == "" {
		return
	}

	if _, err := h.uc.DeleteTodo(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondMessage(ctx, http.StatusOK, transport.TodoDeletedMessage)
}

func (h *TodoHandler) todoID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondError(ctx, domain.ErrInvalidTodoID)
	}
	return id
}

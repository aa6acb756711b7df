package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/donelist/backend/api/handler"
)

type Handlers struct {
	Todo   *apiHandler.TodoHandler
	Health *apiHandler.HealthHandler
}

// Middleware wraps a handler chain around the whole route table.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, middlewares ...Middleware) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/todos", handlers.Todo.GetTodos)
	r.POST("/api/todos", handlers.Todo.CreateTodo)
	r.PATCH("/api/todos/{id}", handlers.Todo.UpdateTodo)
	r.DELETE("/api/todos/{id}", handlers.Todo.DeleteTodo)

	h := r.Handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

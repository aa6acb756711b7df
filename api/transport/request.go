package transport

// CreateTodoRequest is the POST /api/todos body.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest is the PATCH /api/todos/{id} body. Pointer fields
// distinguish an absent field from a zero value; text takes priority when
// both are present.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

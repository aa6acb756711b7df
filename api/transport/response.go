package transport

import "time"

// Message is the body shape shared by error responses and plain
// confirmations, for example {"message": "Todo deleted successfully"}.
type Message struct {
	Message string `json:"message"`
}

// TodoDeletedMessage is returned after a successful delete.
const TodoDeletedMessage = "Todo deleted successfully"

// HealthResponse reports the outcome of the periodic store probe.
type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	CheckedAt time.Time `json:"checkedAt"`
}

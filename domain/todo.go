package domain

import "time"

// Todo represents a single todo-list entry.
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// TodoPatch is a single-field change applied to a stored todo. It carries
// either replacement text or a replacement completed flag, never both.
// Build one with PatchText or PatchCompleted; the zero value is invalid.
type TodoPatch struct {
	text      *string
	completed *bool
}

// PatchText returns a patch replacing the todo text.
func PatchText(text string) TodoPatch {
	return TodoPatch{text: &text}
}

// PatchCompleted returns a patch replacing the completed flag.
func PatchCompleted(completed bool) TodoPatch {
	return TodoPatch{completed: &completed}
}

// Text reports the replacement text carried by the patch, if any.
func (p TodoPatch) Text() (string, bool) {
	if p.text == nil {
		return "", false
	}
	return *p.text, true
}

// Completed reports the replacement flag carried by the patch, if any.
func (p TodoPatch) Completed() (bool, bool) {
	if p.completed == nil {
		return false, false
	}
	return *p.completed, true
}

// IsZero reports whether the patch carries no change.
func (p TodoPatch) IsZero() bool {
	return p.text == nil && p.completed == nil
}

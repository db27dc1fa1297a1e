package model

import "time"

// Todo is a note as the remote service returns it.
// ID and CreatedAt are assigned by the service; a Todo without an ID was never persisted.
type Todo struct {
	ID        *int   `json:"id,omitempty"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TodoInput is the body of create and update requests.
type TodoInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Created parses CreatedAt. ok is false when the service sent nothing parseable.
func (t Todo) Created() (ts time.Time, ok bool) {
	if t.CreatedAt == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, t.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// IntPtr is a small helper for building todos with ids.
func IntPtr(n int) *int { return &n }

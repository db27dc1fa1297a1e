package api

// Fixed, user-facing failure messages, one per operation.
const (
	MsgList   = "Failed to fetch todos"
	MsgCreate = "Failed to create todo"
	MsgUpdate = "Failed to update todo"
	MsgDelete = "Failed to delete todo"
)

// RequestError is the only error the client returns.
// Transport failures, non-2xx statuses and undecodable bodies all end up here;
// Error() is always the operation's fixed message, the cause is kept for logs.
type RequestError struct {
	Op         string // "list", "create", "update", "delete"
	Message    string
	StatusCode int // 0 when no response arrived
	Err        error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

package api

import (
	"time"

	"github.com/lookbusy1344/regdeps-toolkit/service"
)

// SessionCreateRequest represents a request to create a new session from
// an already-encoded instruction stream.
type SessionCreateRequest struct {
	Data []byte `json:"data"`
}

// SessionCreateResponse represents the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Length    int       `json:"length"`
}

// SessionStatusResponse represents the current status of a session.
type SessionStatusResponse struct {
	SessionID string              `json:"sessionId"`
	Position  int                 `json:"position"`
	Length    int                 `json:"length"`
	Filter    service.FilterState `json:"filter"`
	Watches   []service.WatchInfo `json:"watches"`
}

// GotoRequest represents a request to move the cursor to an absolute
// position.
type GotoRequest struct {
	Index int `json:"index"`
}

// StepRequest represents a request to move the cursor by a relative
// offset, honoring the active filter.
type StepRequest struct {
	Delta int `json:"delta"`
}

// FilterRequest represents a request to install a trace-filter
// expression.
type FilterRequest struct {
	Expression string `json:"expression"`
}

// FilterResponse reports the outcome of installing a filter.
type FilterResponse struct {
	service.FilterState
}

// WatchRequest represents a request to add a watch on a register.
type WatchRequest struct {
	Register  int  `json:"register"`
	ReadWrite bool `json:"readWrite"`
}

// WatchResponse reports a newly created watch's ID.
type WatchResponse struct {
	ID int `json:"id"`
}

// WatchesResponse lists every active watch.
type WatchesResponse struct {
	Watches []service.WatchInfo `json:"watches"`
}

// WindowRequest represents a request for a window of instructions
// around the cursor.
type WindowRequest struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// WindowResponse carries a window of instruction snapshots.
type WindowResponse struct {
	Instructions []service.InstructionInfo `json:"instructions"`
}

// RegisterStatsResponse carries a register's aggregate statistics.
type RegisterStatsResponse struct {
	Stats *service.RegisterSummary `json:"stats"`
}

// CategoryStatsResponse carries the top categories in a trace.
type CategoryStatsResponse struct {
	Categories []service.CategorySummary `json:"categories"`
}

// LintResponse carries the structural-lint findings for a trace.
type LintResponse struct {
	Issues []string `json:"issues"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

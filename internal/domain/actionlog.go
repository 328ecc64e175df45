package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ActionLog records a single mutating operation for the action-log reports.
type ActionLog struct {
	ID           string
	Actor        string // who performed the action
	Action       string // what action (document.create, party.create, ...)
	ResourceType string // party, document, ledger
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string // success, failure
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// Auditable actions
const (
	ActionPartyCreate     = "party.create"
	ActionPartyDeactivate = "party.deactivate"

	ActionDocumentCreate = "document.create"
	ActionDocumentUpdate = "document.update"
	ActionDocumentDelete = "document.delete"

	ActionLedgerRecompute = "ledger.recompute"
)

// Resource types
const (
	ResourceTypeParty    = "party"
	ResourceTypeDocument = "document"
	ResourceTypeLedger   = "ledger"
)

// Action statuses
const (
	ActionStatusSuccess = "success"
	ActionStatusFailure = "failure"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request ID used to correlate action logs with
// HTTP request logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the stored request ID, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}

	return ""
}

// MarshalState converts a domain object to JSON for action logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// ActionFilter defines filters for querying action logs.
type ActionFilter struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

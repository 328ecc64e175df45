package domain

import "time"

// Event types
const (
	EventTypePartyCreated    = "party.created"
	EventTypeDocumentCreated = "document.created"
	EventTypeDocumentUpdated = "document.updated"
	EventTypeDocumentDeleted = "document.deleted"
)

// Aggregate types
const (
	AggregateTypeParty    = "party"
	AggregateTypeDocument = "document"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PartyCreatedEvent payload
type PartyCreatedEvent struct {
	PartyID        string `json:"party_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	OpeningBalance string `json:"opening_balance"`
}

// DocumentCreatedEvent payload
type DocumentCreatedEvent struct {
	DocumentID string `json:"document_id"`
	PartyID    string `json:"party_id"`
	Kind       string `json:"kind"`
	Effect     string `json:"effect"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
}

// DocumentUpdatedEvent payload
type DocumentUpdatedEvent struct {
	DocumentID   string `json:"document_id"`
	PartyID      string `json:"party_id"`
	OldPartyID   string `json:"old_party_id,omitempty"`
	Kind         string `json:"kind"`
	OldEffect    string `json:"old_effect"`
	NewEffect    string `json:"new_effect"`
	PartyBalance string `json:"party_balance"`
}

// DocumentDeletedEvent payload
type DocumentDeletedEvent struct {
	DocumentID   string `json:"document_id"`
	PartyID      string `json:"party_id"`
	Kind         string `json:"kind"`
	Effect       string `json:"effect"`
	PartyBalance string `json:"party_balance"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeEvent describes one committed document mutation. Events for a
// given document are delivered in commit order; there is no ordering
// guarantee across unrelated documents.
type ChangeEvent struct {
	Entity   EntityKind `json:"entity"`
	EntityID uuid.UUID  `json:"entity_id"`
	Op       ChangeOp   `json:"op"`
	OwnerID  uuid.UUID  `json:"owner_id,omitempty"`
	At       time.Time  `json:"at"`
}

type EntityKind string

const (
	EntityDeclaration  EntityKind = "DECLARATION"
	EntityVerification EntityKind = "VERIFICATION"
	EntityMatch        EntityKind = "MATCH"
)

type ChangeOp string

const (
	OpCreated ChangeOp = "CREATED"
	OpUpdated ChangeOp = "UPDATED"
	OpDeleted ChangeOp = "DELETED"
)

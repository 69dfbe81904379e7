package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Match is a suggested pairing between a LOSS and a FOUND declaration.
// Confirming or rejecting a match never changes declaration state;
// resolution goes through the verification workflow.
type Match struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	LossDeclarationID  uuid.UUID      `json:"loss_declaration_id" db:"loss_declaration_id"`
	FoundDeclarationID uuid.UUID      `json:"found_declaration_id" db:"found_declaration_id"`
	Confidence         float64        `json:"confidence" db:"confidence"`
	SimilarityReasons  pq.StringArray `json:"similarity_reasons" db:"similarity_reasons"`
	Status             MatchStatus    `json:"status" db:"status"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`

	Candidate *Declaration `json:"candidate,omitempty" db:"-"`
}

type MatchStatus string

const (
	MatchSuggested MatchStatus = "SUGGESTED"
	MatchConfirmed MatchStatus = "CONFIRMED"
	MatchRejected  MatchStatus = "REJECTED"
)

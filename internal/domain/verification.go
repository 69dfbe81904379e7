package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verification is a claim by a non-owner asserting rightful ownership
// of a declared object. It is the only entity whose approval touches
// more than one document at once.
type Verification struct {
	ID                    uuid.UUID          `json:"id" db:"id"`
	DeclarationID         uuid.UUID          `json:"declaration_id" db:"declaration_id"`
	ClaimantID            uuid.UUID          `json:"claimant_id" db:"claimant_id"`
	IdentityDetails       string             `json:"identity_details" db:"identity_details"`
	AdditionalInfo        *string            `json:"additional_info,omitempty" db:"additional_info"`
	SerialNumber          *string            `json:"serial_number,omitempty" db:"serial_number"`
	MatchingDeclarationID *uuid.UUID         `json:"matching_declaration_id,omitempty" db:"matching_declaration_id"`
	Status                VerificationStatus `json:"status" db:"status"`
	RejectionReason       *string            `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt             time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at" db:"updated_at"`
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationVerified || s == VerificationRejected
}

type SubmitClaimInput struct {
	IdentityDetails string  `json:"identity_details" validate:"required"`
	AdditionalInfo  *string `json:"additional_info,omitempty"`
	SerialNumber    *string `json:"serial_number,omitempty"`
}

type Decision string

const (
	DecisionVerify Decision = "VERIFY"
	DecisionReject Decision = "REJECT"
)

type DecideInput struct {
	Decision              Decision   `json:"decision" validate:"required"`
	MatchingDeclarationID *uuid.UUID `json:"matching_declaration_id,omitempty"`
	Reason                *string    `json:"reason,omitempty" validate:"omitempty,max=500"`
}

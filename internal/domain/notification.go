package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	UserID        uuid.UUID        `json:"user_id" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	DeclarationID *uuid.UUID       `json:"declaration_id,omitempty" db:"declaration_id"`
	ActionURL     *string          `json:"action_url,omitempty" db:"action_url"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifMatch        NotificationType = "MATCH"
	NotifVerification NotificationType = "VERIFICATION"
	NotifSuccess      NotificationType = "SUCCESS"
	NotifError        NotificationType = "ERROR"
	NotifWarning      NotificationType = "WARNING"
	NotifInfo         NotificationType = "INFO"
)

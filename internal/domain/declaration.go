package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Declaration struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Type         DeclarationType   `json:"type" db:"type"`
	Title        string            `json:"title" db:"title"`
	Category     string            `json:"category" db:"category"`
	Description  string            `json:"description" db:"description"`
	Condition    *string           `json:"condition,omitempty" db:"condition"`
	Location     string            `json:"location" db:"location"`
	Latitude     *float64          `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64          `json:"longitude,omitempty" db:"longitude"`
	Date         time.Time         `json:"date" db:"date"`
	OwnerID      uuid.UUID         `json:"owner_id" db:"owner_id"`
	ContactEmail string            `json:"contact_email" db:"contact_email"`
	ContactPhone *string           `json:"contact_phone,omitempty" db:"contact_phone"`
	Images       ImageList         `json:"images" db:"images"`
	Active       bool              `json:"active" db:"active"`
	Status       DeclarationStatus `json:"status" db:"status"`
	Version      int64             `json:"-" db:"version"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

type DeclarationType string

const (
	TypeLoss  DeclarationType = "LOSS"
	TypeFound DeclarationType = "FOUND"
)

func (t DeclarationType) Valid() bool {
	return t == TypeLoss || t == TypeFound
}

// Opposite returns the complementary declaration type.
func (t DeclarationType) Opposite() DeclarationType {
	if t == TypeLoss {
		return TypeFound
	}
	return TypeLoss
}

type DeclarationStatus string

const (
	DeclarationOpen     DeclarationStatus = "OPEN"
	DeclarationResolved DeclarationStatus = "RESOLVED"
)

// Image is one uploaded photo attached to a declaration. Insertion
// order is significant and never changed after upload.
type Image struct {
	StoragePath string `json:"storage_path"`
	DownloadURL string `json:"download_url"`
}

type ImageList []Image

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *ImageList) Scan(src interface{}) error {
	if src == nil {
		*l = ImageList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for ImageList")
	}
}

type CreateDeclarationInput struct {
	Type         DeclarationType `json:"type" validate:"required"`
	Title        string          `json:"title" validate:"required,max=200"`
	Category     string          `json:"category" validate:"required,max=100"`
	Description  string          `json:"description"`
	Condition    *string         `json:"condition,omitempty"`
	Location     string          `json:"location" validate:"required"`
	Latitude     *float64        `json:"latitude,omitempty"`
	Longitude    *float64        `json:"longitude,omitempty"`
	Date         time.Time       `json:"date" validate:"required"`
	ContactEmail string          `json:"contact_email" validate:"required,email"`
	ContactPhone *string         `json:"contact_phone,omitempty"`
}

// UpdateDeclarationInput carries the owner-mutable fields. Nil means
// leave the stored value alone. Type, owner and id are immutable.
type UpdateDeclarationInput struct {
	Title        *string    `json:"title,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Condition    *string    `json:"condition,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	ContactEmail *string    `json:"contact_email,omitempty"`
	ContactPhone *string    `json:"contact_phone,omitempty"`
}

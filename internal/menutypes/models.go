package menutypes

import (
	"time"

	"github.com/google/uuid"
)

// MenuType represents a named menu with a per-person price. Gift cards
// reference it and carry its price multiplied by the number of people.
type MenuType struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Amount     float64    `json:"amount" db:"amount"` // price per person
	TemplateID *uuid.UUID `json:"template_id,omitempty" db:"template_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateMenuTypeRequest represents a request to create a menu type
type CreateMenuTypeRequest struct {
	Name       string     `json:"name" binding:"required"`
	Amount     float64    `json:"amount" binding:"required,gt=0"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

// UpdateMenuTypeRequest represents a partial update to a menu type
type UpdateMenuTypeRequest struct {
	Name       *string    `json:"name,omitempty"`
	Amount     *float64   `json:"amount,omitempty"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// FormData maps field id to the value entered (or auto-filled) for it.
type FormData map[string]any

// Clone returns an independent shallow copy.
func (f FormData) Clone() FormData {
	out := make(FormData, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FieldError is a recoverable, field-level validation failure.
type FieldError struct {
	FieldID string `json:"field_id"`
	Message string `json:"message"`
}

// GeneratedContract is immutable once created. TemplateName is a
// snapshot, not a live reference: renaming a template later must not
// rewrite history.
type GeneratedContract struct {
	ID           uuid.UUID
	TemplateID   uuid.UUID
	TemplateName string
	FormData     FormData
	Content      string
	OwnerOrgID   uuid.UUID
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
}

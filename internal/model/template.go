package model

import (
	"time"

	"github.com/google/uuid"
)

type FieldKind string

const (
	FieldKindShortText    FieldKind = "SHORT_TEXT"
	FieldKindLongText     FieldKind = "LONG_TEXT"
	FieldKindNumber       FieldKind = "NUMBER"
	FieldKindDate         FieldKind = "DATE"
	FieldKindSingleSelect FieldKind = "SINGLE_SELECT"
	FieldKindCurrency     FieldKind = "CURRENCY"
	FieldKindBoolean      FieldKind = "BOOLEAN"
)

// IsTextLike reports whether pattern constraints apply to this kind.
func (k FieldKind) IsTextLike() bool {
	switch k {
	case FieldKindShortText, FieldKindLongText, FieldKindDate:
		return true
	}
	return false
}

// IsNumeric reports whether min/max bounds apply to this kind.
func (k FieldKind) IsNumeric() bool {
	return k == FieldKindNumber || k == FieldKindCurrency
}

type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldConstraints struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Message string   `json:"message,omitempty"`
}

// TemplateField is one input slot in a contract template. ID doubles as
// the placeholder token in the body and the form-data key.
type TemplateField struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Kind         FieldKind         `json:"kind"`
	Required     bool              `json:"required"`
	AutoFillPath string            `json:"autoFillPath,omitempty"`
	Options      []SelectOption    `json:"options,omitempty"`
	CurrencyCode string            `json:"currencyCode,omitempty"`
	Constraints  *FieldConstraints `json:"constraints,omitempty"`
}

type ContractTemplate struct {
	ID         uuid.UUID
	Name       string
	Category   string
	Version    int
	IsSystem   bool
	OwnerOrgID *uuid.UUID
	CreatedBy  *uuid.UUID
	Fields     []TemplateField
	Body       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Field returns the declared field with the given id, or nil.
func (t *ContractTemplate) Field(id string) *TemplateField {
	for i := range t.Fields {
		if t.Fields[i].ID == id {
			return &t.Fields[i]
		}
	}
	return nil
}

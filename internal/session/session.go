// Package session drives one contract-generation workflow from
// template selection through rendered preview. A session exclusively
// owns its form data; nothing here needs locking.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/contratos/contracts-service/internal/autofill"
	"github.com/contratos/contracts-service/internal/generate"
	"github.com/contratos/contracts-service/internal/model"
	"github.com/contratos/contracts-service/internal/validate"
)

type State string

const (
	StateSelectingTemplate State = "SELECTING_TEMPLATE"
	StateFillingForm       State = "FILLING_FORM"
	StatePreviewing        State = "PREVIEWING"
)

var (
	ErrWrongState   = errors.New("operation not allowed in current state")
	ErrUnknownField = errors.New("unknown field")
)

type Session struct {
	ID    uuid.UUID
	Owner model.Principal

	state     State
	template  *model.ContractTemplate
	fill      *model.FillContext
	form      model.FormData
	content   string
	startedAt time.Time
	touchedAt time.Time

	gen *generate.Generator
}

func New(owner model.Principal, gen *generate.Generator, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Owner:     owner,
		state:     StateSelectingTemplate,
		startedAt: now,
		touchedAt: now,
		gen:       gen,
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Template() *model.ContractTemplate { return s.template }

// Form returns a copy; the session's own map is never shared.
func (s *Session) Form() model.FormData { return s.form.Clone() }

// SelectTemplate seeds form data from the fill context and moves to
// FillingForm. Auto-fill runs once per selection and only populates
// initial values; it can never overwrite something the user typed,
// because selection is the only writer before editing begins.
func (s *Session) SelectTemplate(template *model.ContractTemplate, fill *model.FillContext) error {
	if s.state != StateSelectingTemplate {
		return ErrWrongState
	}
	form := make(model.FormData, len(template.Fields))
	for _, field := range template.Fields {
		if field.AutoFillPath == "" {
			continue
		}
		if value, ok := autofill.Resolve(fill, field.AutoFillPath); ok {
			form[field.ID] = value
		}
	}
	s.template = template
	s.fill = fill
	s.form = form
	s.content = ""
	s.state = StateFillingForm
	return nil
}

// SetFieldValue records the value and returns immediate validation
// feedback. Feedback never blocks editing; a nil FieldError means the
// value is currently valid.
func (s *Session) SetFieldValue(fieldID string, value any) (*model.FieldError, error) {
	if s.state != StateFillingForm {
		return nil, ErrWrongState
	}
	field := s.template.Field(fieldID)
	if field == nil {
		return nil, ErrUnknownField
	}
	s.form[fieldID] = value
	return validate.Field(*field, value), nil
}

// RequestPreview re-validates every field in aggregate. On any
// failure the session stays in FillingForm and the failing fields are
// returned; otherwise the document is generated and the session moves
// to Previewing.
func (s *Session) RequestPreview() ([]model.FieldError, error) {
	if s.state != StateFillingForm {
		return nil, ErrWrongState
	}
	if errs := validate.All(s.template, s.form); len(errs) > 0 {
		return errs, nil
	}
	s.content = s.gen.Generate(s.template, s.form, s.fill, s.startedAt)
	s.state = StatePreviewing
	return nil, nil
}

// Content is the rendered document, available only while Previewing.
// It stays valid across failed save/download attempts so callers can
// retry without regenerating.
func (s *Session) Content() (string, error) {
	if s.state != StatePreviewing {
		return "", ErrWrongState
	}
	return s.content, nil
}

// BackToForm returns to editing, preserving form data. The rendered
// content is discarded; advancing again re-validates and regenerates.
func (s *Session) BackToForm() error {
	if s.state != StatePreviewing {
		return ErrWrongState
	}
	s.content = ""
	s.state = StateFillingForm
	return nil
}

// BackToTemplates discards form data and rendered content.
func (s *Session) BackToTemplates() {
	s.template = nil
	s.fill = nil
	s.form = nil
	s.content = ""
	s.state = StateSelectingTemplate
}

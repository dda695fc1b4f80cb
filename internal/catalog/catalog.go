// Package catalog is the template model: built-in system templates
// loaded once at process start, merged with org-owned custom templates
// fetched on demand. Malformed templates never reach callers; they are
// dropped with a logged diagnostic so a bad template disables itself,
// not the service.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/contratos/contracts-service/internal/generate"
	"github.com/contratos/contracts-service/internal/model"
)

// CustomTemplateSource is the persistence collaborator for org-owned
// templates. Soft-deleted templates are excluded from ListByScope.
type CustomTemplateSource interface {
	ListByScope(ctx context.Context, scopeID uuid.UUID) ([]model.ContractTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContractTemplate, error)
}

type Catalog struct {
	system []model.ContractTemplate
	custom CustomTemplateSource
	log    zerolog.Logger
}

// New validates the system templates once and keeps only the
// well-formed ones. The system set is immutable afterwards.
func New(system []model.ContractTemplate, custom CustomTemplateSource, log zerolog.Logger) *Catalog {
	kept := make([]model.ContractTemplate, 0, len(system))
	for _, tpl := range system {
		if err := Validate(&tpl); err != nil {
			log.Error().Str("template", tpl.Name).Err(err).Msg("system template malformed, excluded")
			continue
		}
		kept = append(kept, tpl)
	}
	return &Catalog{system: kept, custom: custom, log: log}
}

// List merges system templates with the scope's custom templates,
// sorted by display name. Malformed custom templates are skipped with
// a diagnostic.
func (c *Catalog) List(ctx context.Context, scopeID uuid.UUID) ([]model.ContractTemplate, error) {
	result := make([]model.ContractTemplate, 0, len(c.system))
	result = append(result, c.system...)

	if c.custom != nil && scopeID != uuid.Nil {
		custom, err := c.custom.ListByScope(ctx, scopeID)
		if err != nil {
			return nil, err
		}
		for _, tpl := range custom {
			if err := Validate(&tpl); err != nil {
				c.log.Warn().Stringer("template_id", tpl.ID).Err(err).Msg("custom template malformed, excluded")
				continue
			}
			result = append(result, tpl)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

// Get checks system templates first, then the scope's custom ones.
// Returns nil (not an error) when the id matches nothing visible to
// the scope; callers routinely probe optional scopes.
func (c *Catalog) Get(ctx context.Context, id uuid.UUID, scopeID uuid.UUID) (*model.ContractTemplate, error) {
	for i := range c.system {
		if c.system[i].ID == id {
			return &c.system[i], nil
		}
	}
	if c.custom == nil {
		return nil, nil
	}
	tpl, err := c.custom.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || !tpl.Active {
		return nil, nil
	}
	if tpl.OwnerOrgID == nil || *tpl.OwnerOrgID != scopeID {
		return nil, nil
	}
	if err := Validate(tpl); err != nil {
		c.log.Warn().Stringer("template_id", tpl.ID).Err(err).Msg("custom template malformed, excluded")
		return nil, nil
	}
	return tpl, nil
}

var bodyTokenRe = regexp.MustCompile(`\{\{(#if )?([A-Za-z0-9_]+)\}\}`)

// Validate checks a template's internal consistency: unique field ids,
// options present exactly for single-select, coherent bounds, a
// compilable pattern, and a body that only references declared fields
// or ambient facts. Fatal for the template only, never the process.
func Validate(template *model.ContractTemplate) error {
	declared := make(map[string]struct{}, len(template.Fields))
	for _, field := range template.Fields {
		if field.ID == "" {
			return fmt.Errorf("field with empty id")
		}
		if !isIdentifier(field.ID) {
			return fmt.Errorf("field %q: id is not a valid token identifier", field.ID)
		}
		if _, dup := declared[field.ID]; dup {
			return fmt.Errorf("field %q: duplicate id", field.ID)
		}
		declared[field.ID] = struct{}{}

		if field.Kind == model.FieldKindSingleSelect && len(field.Options) == 0 {
			return fmt.Errorf("field %q: single-select requires options", field.ID)
		}
		if field.Kind != model.FieldKindSingleSelect && len(field.Options) > 0 {
			return fmt.Errorf("field %q: options only allowed on single-select", field.ID)
		}
		if c := field.Constraints; c != nil {
			if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
				return fmt.Errorf("field %q: min %v greater than max %v", field.ID, *c.Min, *c.Max)
			}
			if c.Pattern != "" {
				if _, err := regexp.Compile(c.Pattern); err != nil {
					return fmt.Errorf("field %q: invalid pattern: %v", field.ID, err)
				}
			}
		}
	}

	facts := map[string]struct{}{
		generate.FactDate:           {},
		generate.FactCity:           {},
		generate.FactContractNumber: {},
	}
	for _, match := range bodyTokenRe.FindAllStringSubmatch(template.Body, -1) {
		id := match[2]
		if _, ok := declared[id]; ok {
			continue
		}
		if _, ok := facts[id]; ok {
			continue
		}
		return fmt.Errorf("body references undeclared field %q", id)
	}
	return nil
}

func isIdentifier(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return len(s) > 0
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/contratos/contracts-service/internal/catalog"
	"github.com/contratos/contracts-service/internal/model"
	"github.com/contratos/contracts-service/internal/repository"
)

type TemplateService struct {
	catalog *catalog.Catalog
	repo    *repository.TemplateRepository
}

func NewTemplateService(cat *catalog.Catalog, repo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{catalog: cat, repo: repo}
}

func (s *TemplateService) List(ctx context.Context, principal model.Principal) ([]model.ContractTemplate, error) {
	return s.catalog.List(ctx, principal.OrgID)
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID, principal model.Principal) (*model.ContractTemplate, error) {
	tpl, err := s.catalog.Get(ctx, id, principal.OrgID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrNotFound
	}
	return tpl, nil
}

type CreateTemplateInput struct {
	Name     string
	Category string
	Fields   []model.TemplateField
	Body     string
}

func (s *TemplateService) Create(ctx context.Context, principal model.Principal, input CreateTemplateInput) (uuid.UUID, error) {
	if input.Name == "" {
		return uuid.Nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	template := model.ContractTemplate{
		Name:       input.Name,
		Category:   input.Category,
		OwnerOrgID: &principal.OrgID,
		Fields:     input.Fields,
		Body:       input.Body,
	}
	if err := catalog.Validate(&template); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.repo.Create(ctx, template, principal.UserID)
}

func (s *TemplateService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, patch repository.TemplatePatch) error {
	existing, err := s.ownedCustomTemplate(ctx, principal, id)
	if err != nil {
		return err
	}

	// The patched result must still be a well-formed template.
	updated := *existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Fields != nil {
		updated.Fields = patch.Fields
	}
	if patch.Body != nil {
		updated.Body = *patch.Body
	}
	if err := catalog.Validate(&updated); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.repo.Update(ctx, id, patch, principal.UserID)
}

func (s *TemplateService) SoftDelete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if _, err := s.ownedCustomTemplate(ctx, principal, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// ownedCustomTemplate loads a custom template and checks the caller's
// org owns it. System templates are immutable, so they fail here too.
func (s *TemplateService) ownedCustomTemplate(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.ContractTemplate, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || !existing.Active {
		return nil, ErrNotFound
	}
	if existing.IsSystem {
		return nil, fmt.Errorf("%w: system templates are immutable", ErrPermissionDenied)
	}
	if existing.OwnerOrgID == nil || *existing.OwnerOrgID != principal.OrgID {
		return nil, ErrNotFound
	}
	return existing, nil
}

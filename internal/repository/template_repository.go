package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contratos/contracts-service/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// TemplatePatch carries the updatable parts of a custom template.
// Nil members are left untouched.
type TemplatePatch struct {
	Name     *string
	Category *string
	Fields   []model.TemplateField
	Body     *string
}

type templateRow struct {
	ID         uuid.UUID
	Name       string
	Category   string
	Version    int
	IsSystem   bool
	OwnerOrgID *uuid.UUID
	CreatedBy  *uuid.UUID
	Fields     []byte
	Body       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (row templateRow) toModel() (model.ContractTemplate, error) {
	var fields []model.TemplateField
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &fields); err != nil {
			return model.ContractTemplate{}, fmt.Errorf("template %s: decode fields: %w", row.ID, err)
		}
	}
	return model.ContractTemplate{
		ID:         row.ID,
		Name:       row.Name,
		Category:   row.Category,
		Version:    row.Version,
		IsSystem:   row.IsSystem,
		OwnerOrgID: row.OwnerOrgID,
		CreatedBy:  row.CreatedBy,
		Fields:     fields,
		Body:       row.Body,
		Active:     row.Active,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (r *TemplateRepository) ListByScope(ctx context.Context, scopeID uuid.UUID) ([]model.ContractTemplate, error) {
	var rows []templateRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, category, version, is_system, owner_org_id, created_by,
			fields, body, active, created_at, updated_at
		FROM contract_templates
		WHERE owner_org_id = ? AND active = TRUE
		ORDER BY name ASC
	`, scopeID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	templates := make([]model.ContractTemplate, 0, len(rows))
	for _, row := range rows {
		tpl, err := row.toModel()
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContractTemplate, error) {
	var row templateRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, category, version, is_system, owner_org_id, created_by,
			fields, body, active, created_at, updated_at
		FROM contract_templates
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	tpl, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepository) Create(ctx context.Context, template model.ContractTemplate, actorID uuid.UUID) (uuid.UUID, error) {
	fields, err := json.Marshal(template.Fields)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO contract_templates (
			name, category, version, is_system, owner_org_id, created_by,
			fields, body, active
		) VALUES (?, ?, 1, FALSE, ?, ?, ?, ?, TRUE)
		RETURNING id
	`,
		template.Name,
		template.Category,
		template.OwnerOrgID,
		actorID,
		fields,
		template.Body,
	).Scan(&id).Error
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *TemplateRepository) Update(ctx context.Context, id uuid.UUID, patch TemplatePatch, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.Name != nil {
			if err := tx.Exec(`UPDATE contract_templates SET name = ? WHERE id = ?`, *patch.Name, id).Error; err != nil {
				return err
			}
		}
		if patch.Category != nil {
			if err := tx.Exec(`UPDATE contract_templates SET category = ? WHERE id = ?`, *patch.Category, id).Error; err != nil {
				return err
			}
		}
		if patch.Fields != nil {
			fields, err := json.Marshal(patch.Fields)
			if err != nil {
				return err
			}
			if err := tx.Exec(`UPDATE contract_templates SET fields = ? WHERE id = ?`, fields, id).Error; err != nil {
				return err
			}
		}
		if patch.Body != nil {
			if err := tx.Exec(`UPDATE contract_templates SET body = ? WHERE id = ?`, *patch.Body, id).Error; err != nil {
				return err
			}
		}
		return tx.Exec(`
			UPDATE contract_templates
			SET version = version + 1, updated_at = NOW()
			WHERE id = ?
		`, id).Error
	})
}

// SoftDelete flags the template inactive; it disappears from listings
// but generated contracts keep referencing it.
func (r *TemplateRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contract_templates
		SET active = FALSE, updated_at = NOW()
		WHERE id = ?
	`, id).Error
}

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

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID           uuid.UUID
	TemplateID   uuid.UUID
	TemplateName string
	FormData     []byte
	Content      string
	OwnerOrgID   uuid.UUID
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
}

func (row contractRow) toModel() (model.GeneratedContract, error) {
	var form model.FormData
	if len(row.FormData) > 0 {
		if err := json.Unmarshal(row.FormData, &form); err != nil {
			return model.GeneratedContract{}, fmt.Errorf("contract %s: decode form data: %w", row.ID, err)
		}
	}
	return model.GeneratedContract{
		ID:           row.ID,
		TemplateID:   row.TemplateID,
		TemplateName: row.TemplateName,
		FormData:     form,
		Content:      row.Content,
		OwnerOrgID:   row.OwnerOrgID,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// SaveGenerated persists the contract exactly once; rows are never
// updated afterwards.
func (r *ContractRepository) SaveGenerated(ctx context.Context, contract model.GeneratedContract) (uuid.UUID, error) {
	form, err := json.Marshal(contract.FormData)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO generated_contracts (
			template_id, template_name, form_data, content, owner_org_id, created_by
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		contract.TemplateID,
		contract.TemplateName,
		form,
		contract.Content,
		contract.OwnerOrgID,
		contract.CreatedBy,
	).Scan(&id).Error
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedContract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, template_id, template_name, form_data, content,
			owner_org_id, created_by, created_at
		FROM generated_contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	contract, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) ListByScope(ctx context.Context, scopeID uuid.UUID) ([]model.GeneratedContract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, template_id, template_name, form_data, content,
			owner_org_id, created_by, created_at
		FROM generated_contracts
		WHERE owner_org_id = ?
		ORDER BY created_at DESC
	`, scopeID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]model.GeneratedContract, 0, len(rows))
	for _, row := range rows {
		contract, err := row.toModel()
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

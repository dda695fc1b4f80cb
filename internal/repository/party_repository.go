package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contratos/contracts-service/internal/model"
)

// PartyRepository is the fill-context source: it hands party records
// to the engine as raw attribute maps, preserving whichever schema
// (canonical Spanish or legacy English keys) the row was written in.
// Normalization is the auto-fill resolver's job, not the store's.
type PartyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) *PartyRepository {
	return &PartyRepository{db: db}
}

type partyRow struct {
	ID         uuid.UUID
	Attributes []byte
}

func (r *PartyRepository) GetParty(ctx context.Context, id uuid.UUID) (model.PartyRecord, error) {
	var row partyRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, attributes
		FROM organizations
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	record := model.PartyRecord{}
	if len(row.Attributes) > 0 {
		if err := json.Unmarshal(row.Attributes, &record); err != nil {
			return nil, fmt.Errorf("organization %s: decode attributes: %w", row.ID, err)
		}
	}
	return record, nil
}

// ListCounterparties lists organizations selectable as the other
// party, excluding the caller's own. Display name falls back across
// the two attribute schemas.
func (r *PartyRepository) ListCounterparties(ctx context.Context, selfOrgID uuid.UUID) ([]model.PartySummary, error) {
	var rows []model.PartySummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT id,
			COALESCE(attributes->>'nombre', attributes->>'name', '') AS name
		FROM organizations
		WHERE id <> ?
		ORDER BY name ASC
	`, selfOrgID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

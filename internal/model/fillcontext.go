package model

import (
	"time"

	"github.com/google/uuid"
)

// PartyRecord holds the raw attributes of an organization as stored.
// Records exist in two historical schemas: canonical Spanish keys
// (nombre, direccion, rut, representanteLegal, rutRepresentante,
// tipoEntidad) and legacy English keys (name, address, taxId,
// legalRep, legalRepRut, entityType). A record may carry either set.
type PartyRecord map[string]any

type ContractFacts struct {
	Date   time.Time
	City   string
	Number string
}

// FillContext is the ambient input to auto-fill: the acting
// organization, the selected counterparty, and contract facts.
// All parts are optional and read-only to the engine.
type FillContext struct {
	Self         PartyRecord
	Counterparty PartyRecord
	Contract     ContractFacts
}

// PartySummary is the listing row for counterparty selection.
type PartySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

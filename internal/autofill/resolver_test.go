package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contratos/contracts-service/internal/model"
)

func TestResolveCanonicalAndLegacyKeys(t *testing.T) {
	aliased := []struct {
		segment   string
		canonical string
		legacy    string
	}{
		{"name", "nombre", "name"},
		{"address", "direccion", "address"},
		{"legalRep", "representanteLegal", "legalRep"},
		{"legalRepRut", "rutRepresentante", "legalRepRut"},
		{"entityType", "tipoEntidad", "entityType"},
	}

	for _, tc := range aliased {
		t.Run(tc.segment, func(t *testing.T) {
			canonical := &model.FillContext{Self: model.PartyRecord{tc.canonical: "valor"}}
			legacy := &model.FillContext{Self: model.PartyRecord{tc.legacy: "valor"}}

			v1, ok1 := Resolve(canonical, "organization."+tc.segment)
			v2, ok2 := Resolve(legacy, "organization."+tc.segment)
			require.True(t, ok1)
			require.True(t, ok2)
			assert.Equal(t, v1, v2)
			assert.Equal(t, "valor", v1)
		})
	}
}

func TestResolveCanonicalWinsWhenBothPresent(t *testing.T) {
	ctx := &model.FillContext{Self: model.PartyRecord{
		"nombre": "Sociedad Andina SpA",
		"name":   "Old Name Ltd",
	}}
	v, ok := Resolve(ctx, "organization.name")
	require.True(t, ok)
	assert.Equal(t, "Sociedad Andina SpA", v)
}

func TestResolveCounterpartyLegacyKey(t *testing.T) {
	ctx := &model.FillContext{Counterparty: model.PartyRecord{"name": "Acme"}}
	v, ok := Resolve(ctx, "contraparte.name")
	require.True(t, ok)
	assert.Equal(t, "Acme", v)
}

func TestResolveNonAliasedSegmentIsDirect(t *testing.T) {
	ctx := &model.FillContext{Self: model.PartyRecord{"rut": "76.123.456-7"}}
	v, ok := Resolve(ctx, "organization.rut")
	require.True(t, ok)
	assert.Equal(t, "76.123.456-7", v)

	// Direct lookup does not fall back through the alias table.
	_, ok = Resolve(ctx, "organization.taxNumber")
	assert.False(t, ok)
}

func TestResolveNestedSegments(t *testing.T) {
	ctx := &model.FillContext{Counterparty: model.PartyRecord{
		"contacto": map[string]any{"email": "legal@acme.cl"},
	}}
	v, ok := Resolve(ctx, "counterparty.contacto.email")
	require.True(t, ok)
	assert.Equal(t, "legal@acme.cl", v)
}

func TestResolveStopsOnMissingIntermediate(t *testing.T) {
	ctx := &model.FillContext{Self: model.PartyRecord{"nombre": "X"}}

	for _, path := range []string{
		"organization.contacto.email",
		"counterparty.name",
		"unknown.name",
		"organization.nombre.deeper",
		"",
	} {
		_, ok := Resolve(ctx, path)
		assert.False(t, ok, "path %q", path)
	}
}

func TestResolveNilValueIsAbsent(t *testing.T) {
	ctx := &model.FillContext{Self: model.PartyRecord{"nombre": nil, "name": "Fallback"}}
	v, ok := Resolve(ctx, "organization.name")
	require.True(t, ok)
	assert.Equal(t, "Fallback", v)
}

func TestResolveContractFacts(t *testing.T) {
	ctx := &model.FillContext{Contract: model.ContractFacts{City: "Valparaíso", Number: "CT-0042"}}

	city, ok := Resolve(ctx, "contract.city")
	require.True(t, ok)
	assert.Equal(t, "Valparaíso", city)

	number, ok := Resolve(ctx, "contrato.number")
	require.True(t, ok)
	assert.Equal(t, "CT-0042", number)

	_, ok = Resolve(ctx, "contract.date")
	assert.False(t, ok)
}

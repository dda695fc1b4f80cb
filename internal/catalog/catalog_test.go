package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contratos/contracts-service/internal/model"
)

type fakeSource struct {
	byScope map[uuid.UUID][]model.ContractTemplate
	byID    map[uuid.UUID]*model.ContractTemplate
}

func (f *fakeSource) ListByScope(_ context.Context, scopeID uuid.UUID) ([]model.ContractTemplate, error) {
	return f.byScope[scopeID], nil
}

func (f *fakeSource) GetByID(_ context.Context, id uuid.UUID) (*model.ContractTemplate, error) {
	return f.byID[id], nil
}

func systemTemplate(name string) model.ContractTemplate {
	return model.ContractTemplate{
		ID:       uuid.New(),
		Name:     name,
		IsSystem: true,
		Active:   true,
		Fields:   []model.TemplateField{{ID: "nombre", Kind: model.FieldKindShortText}},
		Body:     "Contrato de {{nombre}}.",
	}
}

func customTemplate(name string, owner uuid.UUID) model.ContractTemplate {
	tpl := systemTemplate(name)
	tpl.IsSystem = false
	tpl.OwnerOrgID = &owner
	return tpl
}

func TestListMergesAndSortsByName(t *testing.T) {
	owner := uuid.New()
	custom := customTemplate("Arriendo Bodega", owner)
	source := &fakeSource{byScope: map[uuid.UUID][]model.ContractTemplate{
		owner: {custom},
	}}

	c := New([]model.ContractTemplate{
		systemTemplate("Prestación de Servicios"),
		systemTemplate("Confidencialidad"),
	}, source, zerolog.Nop())

	list, err := c.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Arriendo Bodega", list[0].Name)
	assert.Equal(t, "Confidencialidad", list[1].Name)
	assert.Equal(t, "Prestación de Servicios", list[2].Name)
}

func TestListSkipsMalformedCustomTemplate(t *testing.T) {
	owner := uuid.New()
	bad := customTemplate("Roto", owner)
	bad.Body = "Referencia {{campoFantasma}}."
	source := &fakeSource{byScope: map[uuid.UUID][]model.ContractTemplate{
		owner: {bad, customTemplate("Bueno", owner)},
	}}

	c := New(nil, source, zerolog.Nop())
	list, err := c.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bueno", list[0].Name)
}

func TestNewDropsMalformedSystemTemplates(t *testing.T) {
	good := systemTemplate("Bueno")
	bad := systemTemplate("Roto")
	bad.Fields[0].Kind = model.FieldKindSingleSelect // no options

	c := New([]model.ContractTemplate{good, bad}, nil, zerolog.Nop())
	list, err := c.List(context.Background(), uuid.Nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bueno", list[0].Name)
}

func TestGetChecksSystemFirstThenScope(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	system := systemTemplate("Sistema")
	custom := customTemplate("Propio", owner)
	source := &fakeSource{byID: map[uuid.UUID]*model.ContractTemplate{custom.ID: &custom}}

	c := New([]model.ContractTemplate{system}, source, zerolog.Nop())

	got, err := c.Get(context.Background(), system.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsSystem)

	got, err = c.Get(context.Background(), custom.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Propio", got.Name)

	// Another org's template is absent, not forbidden.
	got, err = c.Get(context.Background(), custom.ID, stranger)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Get(context.Background(), uuid.New(), owner)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidate(t *testing.T) {
	minVal, maxVal := 100.0, 10.0

	cases := []struct {
		name    string
		mutate  func(*model.ContractTemplate)
		wantErr string
	}{
		{"valid", func(*model.ContractTemplate) {}, ""},
		{"duplicate id", func(tpl *model.ContractTemplate) {
			tpl.Fields = append(tpl.Fields, tpl.Fields[0])
		}, "duplicate id"},
		{"min greater than max", func(tpl *model.ContractTemplate) {
			tpl.Fields[0].Kind = model.FieldKindNumber
			tpl.Fields[0].Constraints = &model.FieldConstraints{Min: &minVal, Max: &maxVal}
		}, "greater than max"},
		{"bad pattern", func(tpl *model.ContractTemplate) {
			tpl.Fields[0].Constraints = &model.FieldConstraints{Pattern: "("}
		}, "invalid pattern"},
		{"undeclared body token", func(tpl *model.ContractTemplate) {
			tpl.Body = "{{nombre}} y {{fantasma}}"
		}, "undeclared field"},
		{"undeclared conditional", func(tpl *model.ContractTemplate) {
			tpl.Body = "{{#if fantasma}}x{{/if}}"
		}, "undeclared field"},
		{"ambient facts allowed", func(tpl *model.ContractTemplate) {
			tpl.Body = "En {{ciudad}}, a {{fecha}}: {{nombre}}"
		}, ""},
		{"select without options", func(tpl *model.ContractTemplate) {
			tpl.Fields[0].Kind = model.FieldKindSingleSelect
		}, "requires options"},
		{"options on non-select", func(tpl *model.ContractTemplate) {
			tpl.Fields[0].Options = []model.SelectOption{{Value: "a", Label: "A"}}
		}, "only allowed on single-select"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl := systemTemplate("T")
			tc.mutate(&tpl)
			err := Validate(&tpl)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

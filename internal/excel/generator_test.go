package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/google/uuid"

	"github.com/contratos/contracts-service/internal/model"
)

func TestExportRegister(t *testing.T) {
	g := NewGenerator()
	contracts := []model.GeneratedContract{
		{
			ID:           uuid.New(),
			TemplateName: "Acuerdo de Confidencialidad",
			CreatedBy:    uuid.New(),
			CreatedAt:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := g.Export(contracts)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	total, err := file.GetCellValue("Registro", "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", total)

	name, err := file.GetCellValue("Registro", "B6")
	require.NoError(t, err)
	assert.Equal(t, "Acuerdo de Confidencialidad", name)
}

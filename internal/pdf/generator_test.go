package pdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contratos/contracts-service/internal/model"
)

func TestRenderProducesPDF(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)

	data, err := g.Render(model.GeneratedContract{
		ID:           uuid.New(),
		TemplateName: "Contrato de Prestación de Servicios",
		Content:      "En Santiago, a 14-03-2025, entre Constructora Sur SpA y Acme.\n\nPRIMERO: Honorarios por $1.500.000.",
		CreatedAt:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

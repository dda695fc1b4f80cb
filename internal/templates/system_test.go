package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contratos/contracts-service/internal/catalog"
)

func TestSystemTemplatesAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, tpl := range System() {
		tpl := tpl
		t.Run(tpl.Name, func(t *testing.T) {
			assert.NoError(t, catalog.Validate(&tpl))
			assert.True(t, tpl.IsSystem)
			assert.True(t, tpl.Active)
			assert.False(t, seen[tpl.ID.String()], "duplicate template id")
			seen[tpl.ID.String()] = true
		})
	}
}

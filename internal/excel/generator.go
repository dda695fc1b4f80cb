package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contratos/contracts-service/internal/model"
)

// Generator writes the org's register of generated contracts as a
// spreadsheet: one summary sheet listing every contract.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Export(contracts []model.GeneratedContract) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Registro"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Registro de contratos generados")
	set("A2", "Generado el")
	set("B2", formatDate(time.Now()))
	set("A3", "Total")
	set("B3", len(contracts))

	tableRow := 5
	headers := []string{"ID", "Plantilla", "Creado por", "Fecha de creación"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, contract := range contracts {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), contract.ID.String())
		set(fmt.Sprintf("B%d", row), contract.TemplateName)
		set(fmt.Sprintf("C%d", row), contract.CreatedBy.String())
		set(fmt.Sprintf("D%d", row), formatDate(contract.CreatedAt))
	}

	_ = file.SetColWidth(sheet, "A", "A", 38)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "C", 38)
	_ = file.SetColWidth(sheet, "D", "D", 18)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02-01-2006")
}

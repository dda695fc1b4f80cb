package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/contratos/contracts-service/internal/model"
)

// Generator renders a generated contract's text for download. The
// built-in core fonts cover Spanish via the cp1252 translator, so no
// font files ship with the binary.
type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

func (g *Generator) Render(contract model.GeneratedContract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.MultiCell(0, 8, tr(strings.ToUpper(contract.TemplateName)), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "", 11)
	for _, paragraph := range strings.Split(contract.Content, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, tr(paragraph), "", "J", false)
	}

	if !contract.CreatedAt.IsZero() {
		pdf.Ln(6)
		pdf.SetFont(g.fontName, "I", 9)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Documento generado el %s", formatDate(contract.CreatedAt))), "", "R", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	return t.Format("02-01-2006")
}

// Package generate renders a contract template body into final
// document text. Token grammar: {{identifier}} substitutes a field or
// ambient fact, {{#if identifier}}...{{/if}} emits the block only when
// the field holds a truthy value. Both are case-sensitive and must be
// preserved exactly for compatibility with existing template bodies.
package generate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/contratos/contracts-service/internal/model"
	"github.com/contratos/contracts-service/internal/validate"
)

// Ambient fact tokens available to every template body.
const (
	FactDate           = "fecha"
	FactCity           = "ciudad"
	FactContractNumber = "numeroContrato"
)

const dateLayout = "02-01-2006"

var (
	conditionalRe = regexp.MustCompile(`(?s)\{\{#if ([A-Za-z0-9_]+)\}\}(.*?)\{\{/if\}\}`)
	plainTokenRe  = regexp.MustCompile(`\{\{[A-Za-z0-9_]+\}\}`)
)

type Generator struct {
	printer     *message.Printer
	defaultCity string
}

func New(locale language.Tag, defaultCity string) *Generator {
	return &Generator{
		printer:     message.NewPrinter(locale),
		defaultCity: defaultCity,
	}
}

// Generate substitutes ambient facts, then field values, then
// evaluates conditional blocks, in that order. Deterministic and pure:
// identical inputs produce byte-identical output. Unknown tokens and
// unknown conditional ids degrade to empty rather than failing, so a
// template referencing a retired field still generates.
func (g *Generator) Generate(template *model.ContractTemplate, form model.FormData, fill *model.FillContext, sessionStart time.Time) string {
	out := template.Body

	// 1. Ambient contract facts.
	for token, value := range g.facts(fill, sessionStart) {
		out = strings.ReplaceAll(out, "{{"+token+"}}", value)
	}

	// 2. Declared field values. Substitution happens once, globally,
	// before conditionals; text inside {{#if}} blocks is already
	// substituted by the time blocks are kept or dropped.
	for _, field := range template.Fields {
		out = strings.ReplaceAll(out, "{{"+field.ID+"}}", g.stringify(field, form[field.ID]))
	}

	// 3. Conditional blocks, single pass, non-nested.
	out = conditionalRe.ReplaceAllStringFunc(out, func(block string) string {
		parts := conditionalRe.FindStringSubmatch(block)
		if truthy(form[parts[1]]) {
			return parts[2]
		}
		return ""
	})

	// 4. Tokens for ids the template never declared substitute to
	// empty; a raw token must never survive into a legal document.
	out = plainTokenRe.ReplaceAllString(out, "")

	return out
}

func (g *Generator) facts(fill *model.FillContext, sessionStart time.Time) map[string]string {
	date := sessionStart
	city := g.defaultCity
	contractNumber := ""
	if fill != nil {
		if !fill.Contract.Date.IsZero() {
			date = fill.Contract.Date
		}
		if fill.Contract.City != "" {
			city = fill.Contract.City
		}
		contractNumber = fill.Contract.Number
	}
	return map[string]string{
		FactDate:           date.Format(dateLayout),
		FactCity:           city,
		FactContractNumber: contractNumber,
	}
}

func (g *Generator) stringify(field model.TemplateField, value any) string {
	if validate.IsEmpty(value) {
		return ""
	}
	if field.Kind == model.FieldKindCurrency {
		if n, ok := validate.ToNumber(value); ok {
			return g.formatCurrency(n)
		}
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "Sí"
		}
		return "No"
	}
	return fmt.Sprint(value)
}

// formatCurrency applies locale grouping; amounts in contract text
// read as 1.500.000, never 1500000.
func (g *Generator) formatCurrency(v float64) string {
	return g.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func truthy(value any) bool {
	if validate.IsEmpty(value) {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

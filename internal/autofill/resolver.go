// Package autofill resolves dotted paths from template fields into the
// fill context, pre-populating form values from party records before
// the user edits anything.
package autofill

import (
	"strings"

	"github.com/contratos/contracts-service/internal/model"
)

// Namespace spellings accepted as the first path segment. Templates
// written against either generation of the schema keep working.
var namespaces = map[string]string{
	"organization": "self",
	"self":         "self",
	"contraparte":  "counterparty",
	"counterparty": "counterparty",
	"contrato":     "contract",
	"contract":     "contract",
}

// partyAliases maps a path's second segment to the (canonical, legacy)
// record keys it may be stored under. Party records exist in two
// incompatible historical schemas; the alias table presents one view
// so template authors never need to know which schema a record uses.
// Only these five keys were ever renamed; everything else resolves by
// direct lookup.
var partyAliases = map[string][2]string{
	"name":        {"nombre", "name"},
	"address":     {"direccion", "address"},
	"legalRep":    {"representanteLegal", "legalRep"},
	"legalRepRut": {"rutRepresentante", "legalRepRut"},
	"entityType":  {"tipoEntidad", "entityType"},
}

// Resolve walks path through ctx and returns the value it lands on.
// The second return is false the instant any intermediate value is
// missing or nil; a dangling path is never an error, because templates
// and party records evolve independently.
func Resolve(ctx *model.FillContext, path string) (any, bool) {
	if ctx == nil || path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")

	ns, ok := namespaces[segments[0]]
	if !ok {
		return nil, false
	}

	var current any
	switch ns {
	case "self":
		if ctx.Self == nil {
			return nil, false
		}
		current = map[string]any(ctx.Self)
	case "counterparty":
		if ctx.Counterparty == nil {
			return nil, false
		}
		current = map[string]any(ctx.Counterparty)
	case "contract":
		current = contractRecord(ctx.Contract)
	}

	if len(segments) == 1 {
		return current, true
	}

	// The alias table applies at the second segment only, and only
	// inside the two party namespaces.
	if ns == "self" || ns == "counterparty" {
		record := current.(map[string]any)
		value, found := lookupParty(record, segments[1])
		if !found {
			return nil, false
		}
		current = value
	} else {
		value, found := lookupDirect(current, segments[1])
		if !found {
			return nil, false
		}
		current = value
	}

	for _, segment := range segments[2:] {
		value, found := lookupDirect(current, segment)
		if !found {
			return nil, false
		}
		current = value
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func lookupParty(record map[string]any, key string) (any, bool) {
	if alias, ok := partyAliases[key]; ok {
		if v, found := presentKey(record, alias[0]); found {
			return v, true
		}
		return presentKey(record, alias[1])
	}
	return presentKey(record, key)
}

func lookupDirect(current any, key string) (any, bool) {
	switch m := current.(type) {
	case map[string]any:
		return presentKey(m, key)
	case model.PartyRecord:
		return presentKey(m, key)
	}
	return nil, false
}

func presentKey(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func contractRecord(facts model.ContractFacts) map[string]any {
	record := map[string]any{}
	if !facts.Date.IsZero() {
		record["date"] = facts.Date
	}
	if facts.City != "" {
		record["city"] = facts.City
	}
	if facts.Number != "" {
		record["number"] = facts.Number
	}
	return record
}

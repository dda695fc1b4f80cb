// Package templates holds the built-in contract templates compiled
// into the binary. They are loaded once at process start and never
// change; ids are fixed so generated contracts keep a stable
// template reference across deployments.
package templates

import (
	"github.com/google/uuid"

	"github.com/contratos/contracts-service/internal/model"
)

func ptr[T any](v T) *T { return &v }

// System returns the built-in template set. The catalog validates
// each one at startup.
func System() []model.ContractTemplate {
	return []model.ContractTemplate{
		servicios(),
		confidencialidad(),
		arriendo(),
	}
}

func servicios() model.ContractTemplate {
	return model.ContractTemplate{
		ID:       uuid.MustParse("7f1c2a34-9b1d-4c5e-8a6f-0102030405a1"),
		Name:     "Contrato de Prestación de Servicios",
		Category: "servicios",
		Version:  1,
		IsSystem: true,
		Active:   true,
		Fields: []model.TemplateField{
			{ID: "contratante", Label: "Contratante", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "organization.name"},
			{ID: "rutContratante", Label: "RUT Contratante", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "organization.rut",
				Constraints: &model.FieldConstraints{Pattern: `\d{1,2}\.\d{3}\.\d{3}-[\dkK]`, Message: "RUT inválido"}},
			{ID: "domicilioContratante", Label: "Domicilio Contratante", Kind: model.FieldKindShortText, AutoFillPath: "organization.address"},
			{ID: "repContratante", Label: "Representante Legal Contratante", Kind: model.FieldKindShortText, AutoFillPath: "organization.legalRep"},
			{ID: "prestador", Label: "Prestador", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "contraparte.name"},
			{ID: "rutPrestador", Label: "RUT Prestador", Kind: model.FieldKindShortText, AutoFillPath: "contraparte.rut",
				Constraints: &model.FieldConstraints{Pattern: `\d{1,2}\.\d{3}\.\d{3}-[\dkK]`, Message: "RUT inválido"}},
			{ID: "domicilioPrestador", Label: "Domicilio Prestador", Kind: model.FieldKindShortText, AutoFillPath: "contraparte.address"},
			{ID: "servicios", Label: "Descripción de los servicios", Kind: model.FieldKindLongText, Required: true},
			{ID: "monto", Label: "Honorarios (CLP)", Kind: model.FieldKindCurrency, Required: true, CurrencyCode: "CLP",
				Constraints: &model.FieldConstraints{Min: ptr(0.0)}},
			{ID: "plazoMeses", Label: "Plazo (meses)", Kind: model.FieldKindNumber, Required: true,
				Constraints: &model.FieldConstraints{Min: ptr(1.0), Max: ptr(120.0)}},
			{ID: "formaPago", Label: "Forma de pago", Kind: model.FieldKindSingleSelect, Required: true, Options: []model.SelectOption{
				{Value: "mensual", Label: "Mensual"},
				{Value: "unica", Label: "Cuota única"},
				{Value: "hitos", Label: "Contra hitos"},
			}},
			{ID: "renovable", Label: "Renovación automática", Kind: model.FieldKindBoolean},
			{ID: "garantia", Label: "Garantía", Kind: model.FieldKindShortText},
		},
		Body: `CONTRATO DE PRESTACIÓN DE SERVICIOS

En {{ciudad}}, a {{fecha}}, entre {{contratante}}, RUT {{rutContratante}}, con domicilio en {{domicilioContratante}}, representada por {{repContratante}}, en adelante "el Contratante"; y {{prestador}}, RUT {{rutPrestador}}, con domicilio en {{domicilioPrestador}}, en adelante "el Prestador", se conviene lo siguiente:

PRIMERO: El Prestador se obliga a ejecutar los siguientes servicios: {{servicios}}.

SEGUNDO: El Contratante pagará por los servicios la suma total de ${{monto}} pesos chilenos, pagadera en modalidad {{formaPago}}.

TERCERO: El presente contrato tendrá una duración de {{plazoMeses}} meses contados desde esta fecha.{{#if renovable}} Se renovará automáticamente por períodos iguales y sucesivos, salvo aviso escrito de cualquiera de las partes con treinta días de anticipación.{{/if}}
{{#if garantia}}
CUARTO: Para garantizar el fiel cumplimiento, el Prestador entrega la siguiente garantía: {{garantia}}.
{{/if}}
Para constancia firman,

{{contratante}}          {{prestador}}`,
	}
}

func confidencialidad() model.ContractTemplate {
	return model.ContractTemplate{
		ID:       uuid.MustParse("7f1c2a34-9b1d-4c5e-8a6f-0102030405a2"),
		Name:     "Acuerdo de Confidencialidad",
		Category: "confidencialidad",
		Version:  1,
		IsSystem: true,
		Active:   true,
		Fields: []model.TemplateField{
			{ID: "parteReveladora", Label: "Parte Reveladora", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "organization.name"},
			{ID: "rutReveladora", Label: "RUT Parte Reveladora", Kind: model.FieldKindShortText, AutoFillPath: "organization.rut"},
			{ID: "parteReceptora", Label: "Parte Receptora", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "contraparte.name"},
			{ID: "rutReceptora", Label: "RUT Parte Receptora", Kind: model.FieldKindShortText, AutoFillPath: "contraparte.rut"},
			{ID: "proposito", Label: "Propósito del intercambio", Kind: model.FieldKindLongText, Required: true},
			{ID: "vigenciaAnios", Label: "Vigencia (años)", Kind: model.FieldKindNumber, Required: true,
				Constraints: &model.FieldConstraints{Min: ptr(1.0), Max: ptr(10.0)}},
			{ID: "multa", Label: "Multa por incumplimiento (CLP)", Kind: model.FieldKindCurrency, CurrencyCode: "CLP",
				Constraints: &model.FieldConstraints{Min: ptr(0.0)}},
		},
		Body: `ACUERDO DE CONFIDENCIALIDAD

En {{ciudad}}, a {{fecha}}, entre {{parteReveladora}}, RUT {{rutReveladora}}, y {{parteReceptora}}, RUT {{rutReceptora}}, se acuerda:

PRIMERO: Las partes intercambiarán información confidencial con el siguiente propósito: {{proposito}}.

SEGUNDO: La obligación de confidencialidad regirá por {{vigenciaAnios}} años desde esta fecha.
{{#if multa}}
TERCERO: El incumplimiento dará derecho a la parte afectada a cobrar una multa de ${{multa}} pesos chilenos, sin perjuicio de las demás acciones legales.
{{/if}}
Para constancia firman,

{{parteReveladora}}          {{parteReceptora}}`,
	}
}

func arriendo() model.ContractTemplate {
	return model.ContractTemplate{
		ID:       uuid.MustParse("7f1c2a34-9b1d-4c5e-8a6f-0102030405a3"),
		Name:     "Contrato de Arriendo",
		Category: "arriendo",
		Version:  1,
		IsSystem: true,
		Active:   true,
		Fields: []model.TemplateField{
			{ID: "arrendador", Label: "Arrendador", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "organization.name"},
			{ID: "repArrendador", Label: "Representante Legal", Kind: model.FieldKindShortText, AutoFillPath: "organization.legalRep"},
			{ID: "rutRepArrendador", Label: "RUT Representante", Kind: model.FieldKindShortText, AutoFillPath: "organization.legalRepRut"},
			{ID: "arrendatario", Label: "Arrendatario", Kind: model.FieldKindShortText, Required: true, AutoFillPath: "contraparte.name"},
			{ID: "direccionInmueble", Label: "Dirección del inmueble", Kind: model.FieldKindShortText, Required: true},
			{ID: "rentaMensual", Label: "Renta mensual (CLP)", Kind: model.FieldKindCurrency, Required: true, CurrencyCode: "CLP",
				Constraints: &model.FieldConstraints{Min: ptr(0.0)}},
			{ID: "fechaInicio", Label: "Fecha de inicio", Kind: model.FieldKindDate, Required: true},
			{ID: "mesesGarantia", Label: "Meses de garantía", Kind: model.FieldKindNumber,
				Constraints: &model.FieldConstraints{Min: ptr(0.0), Max: ptr(12.0)}},
			{ID: "amoblado", Label: "Inmueble amoblado", Kind: model.FieldKindBoolean},
		},
		Body: `CONTRATO DE ARRIENDO

En {{ciudad}}, a {{fecha}}, {{arrendador}}, representada por {{repArrendador}}, RUT {{rutRepArrendador}}, en adelante "el Arrendador", da en arrendamiento a {{arrendatario}}, en adelante "el Arrendatario", el inmueble ubicado en {{direccionInmueble}}.

PRIMERO: La renta mensual será de ${{rentaMensual}} pesos chilenos, pagadera dentro de los primeros cinco días de cada mes.

SEGUNDO: El arriendo comenzará a regir el {{fechaInicio}}.{{#if amoblado}} El inmueble se entrega amoblado, según inventario anexo que forma parte integrante de este contrato.{{/if}}
{{#if mesesGarantia}}
TERCERO: El Arrendatario entrega en garantía el equivalente a {{mesesGarantia}} meses de renta.
{{/if}}
Para constancia firman,

{{arrendador}}          {{arrendatario}}`,
	}
}

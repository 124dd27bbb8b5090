package dto

import "strings"

// NotFound is stored for every field whose pattern did not match.
const NotFound = "No encontrado"

// Column names of the summary sheet. They double as field names for the
// page 1 and page 2 extractors.
const (
	FieldInvoiceNumber = "FACTURA_ELECTRONICA"
	FieldCutoffDate    = "FECHA_CORTE_NOVEDADES"
	FieldTotalPayable  = "TOTAL_A_PAGAR"

	FieldTotalVAT     = "TOTAL_IVA"
	FieldTotalReteICA = "TOTAL_RETE_ICA"

	ColServiceCode = "CODIGO_SERVICIO"
	ColDescription = "DESCRIPCION"
	ColQuantity    = "CANTIDAD"
	ColUnitValue   = "VALOR_UNITARIO"
	ColSubtotalUSD = "SUBTOTAL_DOLAR"
)

// Marker values written into the service columns.
const (
	SubtotalMarker      = "SUBTOTAL"
	SubtotalDescription = "Total general de todos los servicios"
	NoServicesMarker    = "No hay servicios"
	NoServicesDetail    = "No hay servicios detectados en el PDF"
	DefaultQuantity     = "1"
)

var (
	GeneralFields  = []string{FieldInvoiceNumber, FieldCutoffDate, FieldTotalPayable}
	TaxFields      = []string{FieldTotalVAT, FieldTotalReteICA}
	ServiceColumns = []string{ColServiceCode, ColDescription, ColQuantity, ColUnitValue, ColSubtotalUSD}
)

// Columns returns the fixed schema shared by every FlatRecord.
func Columns() []string {
	cols := make([]string, 0, len(GeneralFields)+len(TaxFields)+len(ServiceColumns))
	cols = append(cols, GeneralFields...)
	cols = append(cols, TaxFields...)
	return append(cols, ServiceColumns...)
}

// PageTexts holds the plain text of each document page in page order.
type PageTexts []string

// Page returns the text of the 1-based page n, or "" when the document is shorter.
func (p PageTexts) Page(n int) string {
	if n < 1 || n > len(p) {
		return ""
	}
	return p[n-1]
}

// HasText reports whether any page carries non-blank text.
func (p PageTexts) HasText() bool {
	for _, page := range p {
		if strings.TrimSpace(page) != "" {
			return true
		}
	}
	return false
}

// ExtractedFields maps a field name to its extracted value.
type ExtractedFields map[string]string

// Get never reports absence: unknown or unset fields read as NotFound.
func (f ExtractedFields) Get(name string) string {
	if v, ok := f[name]; ok {
		return v
	}
	return NotFound
}

type ServiceLineItem struct {
	Code        string `json:"codigo_servicio"`
	Description string `json:"descripcion"`
	Quantity    string `json:"cantidad"`
	UnitValue   string `json:"valor_unitario"`
	SubtotalUSD string `json:"subtotal_dolar"`
}

// InvoiceExtractionResult is everything pulled out of one invoice document.
type InvoiceExtractionResult struct {
	General  ExtractedFields   `json:"informacion_general"`
	Taxes    ExtractedFields   `json:"impuestos"`
	Services []ServiceLineItem `json:"servicios"`
	Subtotal string            `json:"subtotal_general"`
}

// HasSubtotal reports whether an aggregate subtotal was located on page 3.
func (r *InvoiceExtractionResult) HasSubtotal() bool {
	return r.Subtotal != "" && r.Subtotal != NotFound
}

// FlatRecord is one row of the summary sheet keyed by column name.
type FlatRecord map[string]string

// Values returns the record's cells ordered by cols.
func (r FlatRecord) Values(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = r[c]
	}
	return out
}

// ExtractionPolicy resolves behaviours on which known invoice layouts disagree.
type ExtractionPolicy struct {
	// AppendSubtotalRow adds the aggregate SUBTOTAL row after the service rows.
	AppendSubtotalRow bool
	// ParseQuantity reads an integer quantity printed before the unit value
	// instead of fixing it at DefaultQuantity.
	ParseQuantity bool
	// LazySubtotalScan tries "SUBTOTAL ... $amount" across the label's line
	// before falling back to the line scan.
	LazySubtotalScan bool
}

// DefaultExtractionPolicy matches the three-page layout currently in production.
func DefaultExtractionPolicy() ExtractionPolicy {
	return ExtractionPolicy{AppendSubtotalRow: true}
}

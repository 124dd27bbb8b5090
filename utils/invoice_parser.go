package utils

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
)

// fieldRule is one way of reading a field. Rules for a field are tried in
// order and the first one that returns ok wins.
type fieldRule struct {
	pattern *regexp.Regexp
	extract func(m []string) string
}

type fieldSpec struct {
	name  string
	rules []fieldRule
}

var (
	invoiceNumberRe = regexp.MustCompile(`FACTURA ELECTRÓNICA DE VENTA:\s*([\d\s\-–]+)`)
	cutoffDateRe    = regexp.MustCompile(`FECHA CORTE NOVEDADES:\s*([A-Za-z]+\s*\d+/\d+)`)
	totalPayableRe  = regexp.MustCompile(`TOTAL A PAGAR:\s*([$\s]*([\d.,]+))`)

	totalVATRe     = regexp.MustCompile(`Total IVA\s*([$\s]*([\d.,\-]+))`)
	totalReteICARe = regexp.MustCompile(`Total Rete ICA\s*([$\s]*([\d.,\-]+))`)

	serviceRe             = regexp.MustCompile(`(BLS\d{4})\s+(.+?)\s+\$\s*([\d.,]+)\s*\$\s*([\d.,]+)`)
	serviceWithQuantityRe = regexp.MustCompile(`(BLS\d{4})\s+(.+?)\s+(?:(\d+)\s+)?\$\s*([\d.,]+)\s*\$\s*([\d.,]+)`)

	subtotalRe     = regexp.MustCompile(`(?i)SUBTOTAL\s*[:\-]?\s*\$\s*([\d.,]+)`)
	subtotalLazyRe = regexp.MustCompile(`(?i)SUBTOTAL.*?\$\s*([\d.,]+)`)
	dollarAmountRe = regexp.MustCompile(`\$\s*([\d.,]+)`)
)

var generalSpecs = []fieldSpec{
	{name: dto.FieldInvoiceNumber, rules: []fieldRule{{invoiceNumberRe, trimmedGroup(1)}}},
	{name: dto.FieldCutoffDate, rules: []fieldRule{{cutoffDateRe, trimmedGroup(1)}}},
	{name: dto.FieldTotalPayable, rules: []fieldRule{{totalPayableRe, amountGroup}}},
}

var taxSpecs = []fieldSpec{
	{name: dto.FieldTotalVAT, rules: []fieldRule{{totalVATRe, amountGroup}}},
	{name: dto.FieldTotalReteICA, rules: []fieldRule{{totalReteICARe, amountGroup}}},
}

// ParseGeneralFields reads the invoice number, cut-off date and total payable
// from the first page.
func ParseGeneralFields(text string) dto.ExtractedFields {
	return applySpecs(text, generalSpecs)
}

// ParseTaxFields reads the VAT and Rete ICA totals from the second page.
func ParseTaxFields(text string) dto.ExtractedFields {
	return applySpecs(text, taxSpecs)
}

// ParseServices returns every BLS service line on the third page in the order
// they appear. Repeated codes are kept.
func ParseServices(text string, policy dto.ExtractionPolicy) []dto.ServiceLineItem {
	var services []dto.ServiceLineItem

	if policy.ParseQuantity {
		for _, m := range serviceWithQuantityRe.FindAllStringSubmatch(text, -1) {
			qty := m[3]
			if qty == "" {
				qty = dto.DefaultQuantity
			}
			services = append(services, dto.ServiceLineItem{
				Code:        m[1],
				Description: strings.TrimSpace(m[2]),
				Quantity:    qty,
				UnitValue:   "$" + m[4],
				SubtotalUSD: "$" + m[5],
			})
		}
		return services
	}

	for _, m := range serviceRe.FindAllStringSubmatch(text, -1) {
		services = append(services, dto.ServiceLineItem{
			Code:        m[1],
			Description: strings.TrimSpace(m[2]),
			Quantity:    dto.DefaultQuantity,
			UnitValue:   "$" + m[3],
			SubtotalUSD: "$" + m[4],
		})
	}
	return services
}

// ParseSubtotal locates the general subtotal on the third page. The labelled
// pattern is tried first, then the last dollar amount on the first line that
// mentions SUBTOTAL.
func ParseSubtotal(text string, policy dto.ExtractionPolicy) string {
	rules := []fieldRule{{subtotalRe, dollarGroup(1)}}
	if policy.LazySubtotalScan {
		rules = append(rules, fieldRule{subtotalLazyRe, dollarGroup(1)})
	}

	if v, ok := applyRules(text, rules); ok {
		return v
	}
	if v, ok := scanSubtotalLines(text); ok {
		return v
	}
	return dto.NotFound
}

// ExtractInvoice runs every page extractor over the document's pages. Pages
// missing from a short document are treated as empty text.
func ExtractInvoice(pages dto.PageTexts, policy dto.ExtractionPolicy) *dto.InvoiceExtractionResult {
	page3 := pages.Page(3)
	return &dto.InvoiceExtractionResult{
		General:  ParseGeneralFields(pages.Page(1)),
		Taxes:    ParseTaxFields(pages.Page(2)),
		Services: ParseServices(page3, policy),
		Subtotal: ParseSubtotal(page3, policy),
	}
}

// WithDollarPrefix prefixes amount with "$" unless it already has one.
func WithDollarPrefix(amount string) string {
	if strings.HasPrefix(amount, "$") {
		return amount
	}
	return "$" + amount
}

func applySpecs(text string, specs []fieldSpec) dto.ExtractedFields {
	fields := make(dto.ExtractedFields, len(specs))
	for _, spec := range specs {
		if v, ok := applyRules(text, spec.rules); ok {
			fields[spec.name] = v
		} else {
			fields[spec.name] = dto.NotFound
		}
	}
	return fields
}

func applyRules(text string, rules []fieldRule) (string, bool) {
	for _, rule := range rules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			return rule.extract(m), true
		}
	}
	return "", false
}

func scanSubtotalLines(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToUpper(line), "SUBTOTAL") {
			continue
		}
		amounts := dollarAmountRe.FindAllStringSubmatch(line, -1)
		if len(amounts) > 0 {
			return "$" + amounts[len(amounts)-1][1], true
		}
	}
	return "", false
}

func trimmedGroup(i int) func([]string) string {
	return func(m []string) string {
		return strings.TrimSpace(m[i])
	}
}

func dollarGroup(i int) func([]string) string {
	return func(m []string) string {
		return "$" + m[i]
	}
}

// amountGroup prefers the bare numeric inner group so stray currency symbols
// and spaces captured by the outer group are dropped.
func amountGroup(m []string) string {
	if len(m) > 2 && m[2] != "" {
		return WithDollarPrefix(m[2])
	}
	return strings.TrimSpace(m[1])
}

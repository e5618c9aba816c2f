package usecases

import (
	"regexp"
	"strings"

	"project_ria/internal/entities"
)

// DirectiveKind tags a structured side-effect embedded in model output.
type DirectiveKind int

const (
	DirectiveNone DirectiveKind = iota
	DirectiveLead
	DirectiveOrder
)

// Directive is the parsed form of a [LEAD_DATA: ...] or [ORDER_DATA: ...]
// marker. Fields are pipe-split and trimmed, mapped positionally by the
// caller. [IMAGE: url] markers are not directives; they pass through to the
// widget for inline rendering.
type Directive struct {
	Kind   DirectiveKind
	Fields []string
}

var (
	leadMarker  = regexp.MustCompile(`\[LEAD_DATA:([^\]]*)\]`)
	orderMarker = regexp.MustCompile(`\[ORDER_DATA:([^\]]*)\]`)
)

// ExtractDirective scans a completion for directive markers. The first
// lead-or-order marker in the text wins; every lead/order marker span is
// stripped from the returned visible text regardless.
func ExtractDirective(reply string) (Directive, string) {
	leadLoc := leadMarker.FindStringSubmatchIndex(reply)
	orderLoc := orderMarker.FindStringSubmatchIndex(reply)

	directive := Directive{Kind: DirectiveNone}
	switch {
	case leadLoc != nil && (orderLoc == nil || leadLoc[0] < orderLoc[0]):
		directive = Directive{Kind: DirectiveLead, Fields: splitFields(reply[leadLoc[2]:leadLoc[3]])}
	case orderLoc != nil:
		directive = Directive{Kind: DirectiveOrder, Fields: splitFields(reply[orderLoc[2]:orderLoc[3]])}
	}

	visible := leadMarker.ReplaceAllString(reply, "")
	visible = orderMarker.ReplaceAllString(visible, "")
	return directive, strings.TrimSpace(visible)
}

func splitFields(raw string) []string {
	parts := strings.Split(raw, "|")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}

// field returns the i-th field or empty. A directive with fewer fields than
// expected yields partially-empty records, never an error.
func (d Directive) field(i int) string {
	if i < len(d.Fields) {
		return d.Fields[i]
	}
	return ""
}

// Lead maps a lead directive's fields positionally.
func (d Directive) Lead(tenantID string) *entities.Lead {
	return &entities.Lead{
		TenantID: tenantID,
		Name:     d.field(0),
		Phone:    d.field(1),
		Interest: d.field(2),
	}
}

// Order maps an order directive to its opaque detail blob.
func (d Directive) Order(tenantID string) *entities.Order {
	return &entities.Order{
		TenantID: tenantID,
		Details:  strings.Join(d.Fields, " | "),
	}
}

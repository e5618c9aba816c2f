package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDirectiveLead(t *testing.T) {
	reply := "Great, I will call you soon! [LEAD_DATA: Nimal Perera | 0771234567 | Gaming laptop]"

	directive, visible := ExtractDirective(reply)

	require.Equal(t, DirectiveLead, directive.Kind)
	assert.Equal(t, []string{"Nimal Perera", "0771234567", "Gaming laptop"}, directive.Fields)
	assert.Equal(t, "Great, I will call you soon!", visible)
	assert.NotContains(t, visible, "LEAD_DATA")
}

func TestExtractDirectiveLeadFieldMapping(t *testing.T) {
	directive, _ := ExtractDirective("[LEAD_DATA: a | b | c]")
	lead := directive.Lead("t1")

	assert.Equal(t, "t1", lead.TenantID)
	assert.Equal(t, "a", lead.Name)
	assert.Equal(t, "b", lead.Phone)
	assert.Equal(t, "c", lead.Interest)
}

func TestExtractDirectivePartialFields(t *testing.T) {
	// Fewer fields than expected must yield empty fields, never an error.
	directive, visible := ExtractDirective("Noted! [LEAD_DATA: Kamal]")

	require.Equal(t, DirectiveLead, directive.Kind)
	lead := directive.Lead("t1")
	assert.Equal(t, "Kamal", lead.Name)
	assert.Equal(t, "", lead.Phone)
	assert.Equal(t, "", lead.Interest)
	assert.Equal(t, "Noted!", visible)
}

func TestExtractDirectiveOrder(t *testing.T) {
	directive, visible := ExtractDirective("Order confirmed. [ORDER_DATA: 2x Blue Tumbler, COD]")

	require.Equal(t, DirectiveOrder, directive.Kind)
	order := directive.Order("t1")
	assert.Equal(t, "2x Blue Tumbler, COD", order.Details)
	assert.Equal(t, "Order confirmed.", visible)
}

func TestExtractDirectiveFirstMatchWins(t *testing.T) {
	reply := "[LEAD_DATA: A | 1 | x] middle [ORDER_DATA: y]"

	directive, visible := ExtractDirective(reply)

	// Only one lead-or-order directive is acted on, and both spans are
	// stripped from the visible text.
	assert.Equal(t, DirectiveLead, directive.Kind)
	assert.Equal(t, "middle", visible)
}

func TestExtractDirectiveOrderBeforeLead(t *testing.T) {
	directive, _ := ExtractDirective("[ORDER_DATA: y] then [LEAD_DATA: A]")
	assert.Equal(t, DirectiveOrder, directive.Kind)
}

func TestExtractDirectiveImagePassesThrough(t *testing.T) {
	reply := "Here it is! [IMAGE: https://cdn.example.com/tumbler.jpg]"

	directive, visible := ExtractDirective(reply)

	assert.Equal(t, DirectiveNone, directive.Kind)
	assert.Equal(t, reply, visible)
}

func TestExtractDirectiveNoMarkerPassThrough(t *testing.T) {
	reply := "Hello! How can I help you today?\n\nWe have *great* offers."

	directive, visible := ExtractDirective(reply)

	assert.Equal(t, DirectiveNone, directive.Kind)
	assert.Equal(t, reply, visible)
}

func TestExtractDirectiveCaseSensitiveKeyword(t *testing.T) {
	directive, visible := ExtractDirective("[lead_data: A | 1 | x]")

	assert.Equal(t, DirectiveNone, directive.Kind)
	assert.Equal(t, "[lead_data: A | 1 | x]", visible)
}

package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"project_ria/internal/entities"
)

func TestPlanCeilings(t *testing.T) {
	assert.Equal(t, 30, PlanCeiling(entities.PlanLite))
	assert.Equal(t, 70, PlanCeiling(entities.PlanStandard))
	assert.Equal(t, 150, PlanCeiling(entities.PlanPro))
	// Unknown tiers use the conservative default, never unlimited.
	assert.Equal(t, 30, PlanCeiling("Enterprise"))
	assert.Equal(t, 30, PlanCeiling(""))
}

func TestCheckEntitlementAllowed(t *testing.T) {
	tenant := &entities.Tenant{Status: entities.StatusActive, Plan: entities.PlanLite}
	cfg := &entities.BotConfig{}

	verdict := CheckEntitlement(tenant, cfg, 29)
	assert.True(t, verdict.Allowed)
	assert.Empty(t, verdict.Fallback)
}

func TestCheckEntitlementAtCeiling(t *testing.T) {
	tenant := &entities.Tenant{Status: entities.StatusActive, Plan: entities.PlanLite}
	cfg := &entities.BotConfig{}

	verdict := CheckEntitlement(tenant, cfg, 30)
	assert.False(t, verdict.Allowed)
	assert.NotEmpty(t, verdict.Fallback)
}

func TestCheckEntitlementCustomLimitMessage(t *testing.T) {
	tenant := &entities.Tenant{Status: entities.StatusActive, Plan: entities.PlanLite}
	cfg := &entities.BotConfig{LimitMessage: "Call us on 011-1234567."}

	verdict := CheckEntitlement(tenant, cfg, 30)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "Call us on 011-1234567.", verdict.Fallback)
}

func TestCheckEntitlementSuspended(t *testing.T) {
	tenant := &entities.Tenant{Status: entities.StatusSuspended, Plan: entities.PlanPro}
	cfg := &entities.BotConfig{}

	// Suspension wins even with quota remaining.
	verdict := CheckEntitlement(tenant, cfg, 0)
	assert.False(t, verdict.Allowed)
	assert.NotEmpty(t, verdict.Fallback)
}

func TestCheckEntitlementUnknownPlanUsesDefault(t *testing.T) {
	tenant := &entities.Tenant{Status: entities.StatusActive, Plan: "Mystery"}
	cfg := &entities.BotConfig{}

	assert.True(t, CheckEntitlement(tenant, cfg, 29).Allowed)
	assert.False(t, CheckEntitlement(tenant, cfg, 30).Allowed)
}

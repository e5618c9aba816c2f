package usecases

import (
	"fmt"

	"project_ria/internal/entities"
)

// Per-plan daily message ceilings. Unknown plans get the lowest ceiling
// rather than unlimited access.
var planCeilings = map[string]int{
	entities.PlanLite:     30,
	entities.PlanStandard: 70,
	entities.PlanPro:      150,
}

const defaultCeiling = 30

const (
	fallbackInactive  = "This assistant is currently unavailable. Please contact the business directly."
	fallbackLimit     = "Daily limit reached. Contact us for an upgrade!"
	fallbackSuspended = "This assistant is paused right now. Please reach the business through its usual contact channel."
)

// Verdict is the entitlement gate's decision. When Allowed is false the
// pipeline short-circuits with Fallback and never calls a provider.
type Verdict struct {
	Allowed  bool
	Fallback string
}

// PlanCeiling returns the daily ceiling for a plan tier.
func PlanCeiling(plan string) int {
	if ceiling, ok := planCeilings[plan]; ok {
		return ceiling
	}
	return defaultCeiling
}

// CheckEntitlement decides whether the tenant may process another message
// this period. usage is today's count as observed at the start of the
// request; the check is best-effort against concurrent requests.
func CheckEntitlement(tenant *entities.Tenant, cfg *entities.BotConfig, usage int) Verdict {
	if tenant.Status == entities.StatusSuspended {
		return Verdict{Fallback: fallbackSuspended}
	}

	if usage >= PlanCeiling(tenant.Plan) {
		fallback := cfg.LimitMessage
		if fallback == "" {
			fallback = fallbackLimit
		}
		return Verdict{Fallback: fallback}
	}

	return Verdict{Allowed: true}
}

// LeadAlertText formats the outbound notification for a captured lead.
func LeadAlertText(lead *entities.Lead) string {
	return fmt.Sprintf("🎯 *New Lead!*\n\nName: %s\nPhone: %s\nInterest: %s",
		lead.Name, lead.Phone, lead.Interest)
}

// OrderAlertText formats the outbound notification for a captured order.
func OrderAlertText(order *entities.Order) string {
	return fmt.Sprintf("🛒 *New Order!*\n\nDetails: %s", order.Details)
}

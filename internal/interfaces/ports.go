package interfaces

import (
	"context"

	"project_ria/internal/entities"
)

// CompletionOptions tune one provider call.
type CompletionOptions struct {
	Temperature float64
	// Tier selects the provider's larger model when set to "pro".
	Tier string
}

// CompletionProvider is one configured model endpoint. Implementations pick
// a credential from their own pool per call; that rotation is invisible here.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, messages []entities.ChatMessage, opts CompletionOptions) (string, error)
}

// AlertSink delivers an outbound notification about a tenant event.
// Delivery is best-effort: callers log and swallow errors.
type AlertSink interface {
	Name() string
	SendAlert(ctx context.Context, tenant *entities.Tenant, text string) error
}

// TenantStore resolves a tenant with its configuration and knowledge base.
type TenantStore interface {
	Resolve(ctx context.Context, tenantID string) (*entities.TenantProfile, error)
}

// ConversationStore reads and appends session turns.
type ConversationStore interface {
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]entities.Turn, error)
	AppendExchange(ctx context.Context, userTurn, assistantTurn entities.Turn) error
}

// UsageStore tracks per-tenant, per-day processed message counts.
type UsageStore interface {
	TodayCount(ctx context.Context, tenantID string) (int, error)
	Increment(ctx context.Context, tenantID string) error
}

// LeadStore persists captured leads and orders.
type LeadStore interface {
	InsertLead(ctx context.Context, lead *entities.Lead) error
	InsertOrder(ctx context.Context, order *entities.Order) error
}

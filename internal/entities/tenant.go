package entities

import "time"

// Tenant operating statuses. Anything other than active means the widget
// must degrade gracefully instead of reaching the model.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusLocked    = "locked"
)

// Plan tiers, ascending by daily message ceiling.
const (
	PlanLite     = "Lite"
	PlanStandard = "Standard"
	PlanPro      = "Pro"
)

type Tenant struct {
	ID             string    `json:"id"`
	BusinessName   string    `json:"business_name"`
	Status         string    `json:"status"`
	Plan           string    `json:"plan_type"`
	Currency       string    `json:"currency"`
	TelegramChatID string    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// BotConfig is the tenant-supplied agent configuration rendered into the
// system prompt and the widget branding payload.
type BotConfig struct {
	TenantID       string  `json:"tenant_id"`
	BotName        string  `json:"bot_name"`
	Persona        string  `json:"persona"`
	KnowledgeBase  string  `json:"knowledge_base"`
	WelcomeMessage string  `json:"welcome_message"`
	AccentColor    string  `json:"accent_color"`
	Temperature    float64 `json:"temperature"`
	HistoryWindow  int     `json:"history_window"`
	LimitMessage   string  `json:"limit_message"`
}

// KnowledgeItem is one product line of the tenant's knowledge base,
// rendered verbatim into the prompt.
type KnowledgeItem struct {
	ID          int       `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	ImageURL    string    `json:"image_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TenantProfile bundles everything the pipeline needs about one tenant,
// loaded in a single logical fetch.
type TenantProfile struct {
	Tenant    Tenant
	Config    BotConfig
	Knowledge []KnowledgeItem
}

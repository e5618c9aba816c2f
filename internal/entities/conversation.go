package entities

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is the wire format sent to completion providers.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one persisted message of a session. Append-only; ordering by
// creation time is the only consistency requirement.
type Turn struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is a contact captured from a [LEAD_DATA: ...] directive in model
// output. Duplicate captures across turns are possible and accepted.
type Lead struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"customer_name"`
	Phone     string    `json:"customer_phone"`
	Interest  string    `json:"interest_summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is an order confirmation captured from an [ORDER_DATA: ...] directive.
type Order struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

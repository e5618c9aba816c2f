package usecases

import (
	"fmt"
	"strings"

	"project_ria/internal/entities"
)

const (
	defaultHistoryWindow = 6
	maxHistoryWindow     = 20
)

// BuildSystemPrompt synthesizes the system instruction block for one tenant.
// Pure function: (tenant, config, knowledge) -> text, no I/O.
// promptOverride, when non-empty, replaces the tenant's persona section for
// this request only.
func BuildSystemPrompt(profile *entities.TenantProfile, promptOverride string) string {
	cfg := profile.Config
	persona := cfg.Persona
	if promptOverride != "" {
		persona = promptOverride
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Identity: You are %s, staff of %s.\n", cfg.BotName, profile.Tenant.BusinessName)
	sb.WriteString("You are a human staff member. Never say you are an AI, a bot or a language model. ")
	fmt.Fprintf(&sb, "If asked who you are, answer only with the name %s.\n", cfg.BotName)

	if persona != "" {
		fmt.Fprintf(&sb, "Persona: %s\n", persona)
	}
	if cfg.KnowledgeBase != "" {
		fmt.Fprintf(&sb, "Knowledge: %s\n", cfg.KnowledgeBase)
	}

	sb.WriteString("Products:\n")
	sb.WriteString(FormatKnowledge(profile.Tenant.Currency, profile.Knowledge))

	sb.WriteString("\nRULES:\n")
	sb.WriteString("1. Never format answers as tables.\n")
	sb.WriteString("2. Greet the customer warmly before any sales push.\n")
	sb.WriteString("3. Answer in the same language the customer writes in.\n")
	sb.WriteString("4. Never ask again for information already present in this conversation.\n")
	sb.WriteString("5. Include the product's [IMAGE: URL] tag whenever you mention a product that has one.\n")
	sb.WriteString("6. If the customer shares contact details, end your reply with [LEAD_DATA: Name | Phone | Interest].\n")
	sb.WriteString("7. If the customer confirms an order, end your reply with [ORDER_DATA: details].\n")

	return sb.String()
}

// FormatKnowledge renders knowledge items one line per product.
func FormatKnowledge(currency string, items []entities.KnowledgeItem) string {
	if len(items) == 0 {
		return "(no products configured)\n"
	}
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "● %s: %s (%s %s)", item.Name, item.Description, currency, item.Price)
		if item.ImageURL != "" {
			fmt.Fprintf(&sb, " [IMAGE: %s]", item.ImageURL)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// HistoryWindow clamps the tenant's configured window to a sane range.
func HistoryWindow(cfg *entities.BotConfig) int {
	n := cfg.HistoryWindow
	if n <= 0 {
		return defaultHistoryWindow
	}
	if n > maxHistoryWindow {
		return maxHistoryWindow
	}
	return n
}

// AssembleContext builds the ordered message sequence for dispatch:
// system, history oldest-to-newest, then the new user message.
func AssembleContext(system string, history []entities.Turn, userMessage string) []entities.ChatMessage {
	messages := make([]entities.ChatMessage, 0, len(history)+2)
	messages = append(messages, entities.ChatMessage{Role: entities.RoleSystem, Content: system})
	for _, turn := range history {
		messages = append(messages, entities.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, entities.ChatMessage{Role: entities.RoleUser, Content: userMessage})
	return messages
}

package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
	"project_ria/internal/interfaces"
	"project_ria/internal/logger"
	"project_ria/internal/usecases"
)

// ChatService is the pipeline surface the widget handler needs.
type ChatService interface {
	Process(ctx context.Context, req usecases.ChatRequest) (string, error)
	FanOutAlert(ctx context.Context, tenant *entities.Tenant, text string)
}

// WidgetHandler serves the embedded chat widget. All tenant-facing failures
// answer HTTP 200 with an in-band error message so the widget degrades
// gracefully; non-200 is reserved for internal faults.
type WidgetHandler struct {
	chat    ChatService
	tenants interfaces.TenantStore
	log     *logger.Logger
}

func NewWidgetHandler(chat ChatService, tenants interfaces.TenantStore, log *logger.Logger) *WidgetHandler {
	return &WidgetHandler{
		chat:    chat,
		tenants: tenants,
		log:     log,
	}
}

type widgetRequest struct {
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	// Type discriminates the request: "chat" (default), "notify", "config".
	Type             string `json:"type"`
	ModelTier        string `json:"model_tier"`
	SystemPrompt     string `json:"system_prompt"`
	NotificationText string `json:"notification_text"`
}

func (h *WidgetHandler) HandleWidget(c *gin.Context) {
	var req widgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !ValidSlug(req.TenantID) {
		c.JSON(http.StatusOK, gin.H{"error": "Unauthorized or Inactive Client"})
		return
	}

	switch req.Type {
	case "", "chat":
		h.handleChat(c, req)
	case "notify":
		h.handleNotify(c, req)
	case "config":
		h.handleConfig(c, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Request Type"})
	}
}

func (h *WidgetHandler) handleChat(c *gin.Context, req widgetRequest) {
	if !ValidSessionID(req.SessionID) || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and message are required"})
		return
	}

	log := h.log.WithRequestID(uuid.NewString())
	ctx := c.Request.Context()

	reply, err := h.chat.Process(ctx, usecases.ChatRequest{
		TenantID:       req.TenantID,
		SessionID:      req.SessionID,
		Message:        TruncateString(SanitizeString(req.Message), MaxMessageLength),
		ModelTier:      req.ModelTier,
		PromptOverride: SanitizeString(req.SystemPrompt),
	})
	if err != nil {
		// The one path with no tenant-facing fallback; safe body, 5xx status.
		log.Error("chat_failed", "tenant_id", req.TenantID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant is temporarily unavailable. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// handleNotify relays a widget-originated alert to the tenant's channels.
func (h *WidgetHandler) handleNotify(c *gin.Context, req widgetRequest) {
	profile := h.resolveActive(c, req.TenantID)
	if profile == nil {
		return
	}

	if req.NotificationText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification_text is required"})
		return
	}

	text := TruncateString(SanitizeString(req.NotificationText), MaxMessageLength)
	h.chat.FanOutAlert(c.Request.Context(), &profile.Tenant, text)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleConfig returns the branding payload the widget fetches before its
// first render.
func (h *WidgetHandler) handleConfig(c *gin.Context, req widgetRequest) {
	profile := h.resolveActive(c, req.TenantID)
	if profile == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bot_name":        profile.Config.BotName,
		"business_name":   profile.Tenant.BusinessName,
		"welcome_message": profile.Config.WelcomeMessage,
		"accent_color":    profile.Config.AccentColor,
	})
}

// resolveActive loads the tenant and writes the degraded-but-200 response
// itself when the tenant is unknown or not operational.
func (h *WidgetHandler) resolveActive(c *gin.Context, tenantID string) *entities.TenantProfile {
	profile, err := h.tenants.Resolve(c.Request.Context(), tenantID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindTenantNotFound {
			c.JSON(http.StatusOK, gin.H{"error": "Unauthorized or Inactive Client"})
			return nil
		}
		h.log.DatabaseError("tenant.resolve", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return nil
	}
	if profile.Tenant.Status != entities.StatusActive {
		c.JSON(http.StatusOK, gin.H{"error": "Unauthorized or Inactive Client"})
		return nil
	}
	return profile
}

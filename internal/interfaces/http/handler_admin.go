package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
	"project_ria/internal/infrastructure"
	"project_ria/internal/logger"
	"project_ria/internal/repository"
	"project_ria/internal/usecases"
)

// AdminHandler serves the tenant dashboard API: bot configuration, products,
// usage, captured leads and WhatsApp alert-channel pairing.
type AdminHandler struct {
	tenantRepo *repository.TenantRepository
	usageRepo  *repository.UsageRepository
	leadRepo   *repository.LeadRepository
	waManager  *infrastructure.WhatsAppManager
	log        *logger.Logger
}

func NewAdminHandler(tenantRepo *repository.TenantRepository, usageRepo *repository.UsageRepository, leadRepo *repository.LeadRepository, waManager *infrastructure.WhatsAppManager, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		tenantRepo: tenantRepo,
		usageRepo:  usageRepo,
		leadRepo:   leadRepo,
		waManager:  waManager,
		log:        log,
	}
}

// tenantScope extracts the tenant bound to the authenticated account.
func tenantScope(c *gin.Context) string {
	tenantID, _ := c.Get("tenant_id")
	if s, ok := tenantID.(string); ok {
		return s
	}
	return ""
}

func writeError(c *gin.Context, err error) {
	var status int
	if e, ok := err.(*apperr.Error); ok {
		status = e.HTTPStatus()
	} else {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetTenant returns the account's tenant profile.
func (h *AdminHandler) GetTenant(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	profile, err := h.tenantRepo.Resolve(c.Request.Context(), tenantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":   profile.Tenant,
		"config":   profile.Config,
		"products": profile.Knowledge,
	})
}

// UpdateConfig replaces the tenant's bot configuration.
func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	var cfg entities.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	cfg.TenantID = tenantID
	cfg.Persona = TruncateString(SanitizeString(cfg.Persona), MaxConfigLength)
	cfg.KnowledgeBase = TruncateString(SanitizeString(cfg.KnowledgeBase), MaxConfigLength)

	if err := h.tenantRepo.UpdateConfig(c.Request.Context(), &cfg); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// UpsertProduct creates or updates one knowledge item.
func (h *AdminHandler) UpsertProduct(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	var item entities.KnowledgeItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}
	item.TenantID = tenantID

	if err := h.tenantRepo.UpsertProduct(c.Request.Context(), &item); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteProduct removes one knowledge item.
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	tenantID := tenantScope(c)
	productID, err := strconv.Atoi(c.Param("id"))
	if tenantID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.tenantRepo.DeleteProduct(c.Request.Context(), tenantID, productID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetUsage returns today's count, the plan ceiling and recent history.
func (h *AdminHandler) GetUsage(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	profile, err := h.tenantRepo.Resolve(c.Request.Context(), tenantID)
	if err != nil {
		writeError(c, err)
		return
	}

	today, err := h.usageRepo.TodayCount(c.Request.Context(), tenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	history, err := h.usageRepo.History(c.Request.Context(), tenantID, 30)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today":   today,
		"ceiling": usecases.PlanCeiling(profile.Tenant.Plan),
		"history": history,
	})
}

// GetLeads lists the newest captured leads.
func (h *AdminHandler) GetLeads(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	leads, err := h.leadRepo.RecentLeads(c.Request.Context(), tenantID, 50)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// ========================================
// WhatsApp alert-channel pairing
// ========================================

// ConnectWhatsApp starts (or resumes) the tenant's device connection.
func (h *AdminHandler) ConnectWhatsApp(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	client, err := h.waManager.ConnectClient(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	phone, name := client.PairedInfo()
	c.JSON(http.StatusOK, gin.H{
		"status":    "connecting",
		"connected": client.IsLoggedIn(),
		"phone":     phone,
		"name":      name,
	})
}

// GetWhatsAppQR returns the pairing QR as PNG.
func (h *AdminHandler) GetWhatsAppQR(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.String(http.StatusForbidden, "No tenant bound to this account")
		return
	}

	client, err := h.waManager.GetOrCreateClient(tenantID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to create client: "+err.Error())
		return
	}

	if client.Client.Store.ID == nil && !client.Client.IsConnected() {
		if err := client.Connect(); err != nil {
			c.String(http.StatusInternalServerError, "Failed to connect: "+err.Error())
			return
		}
	}

	qrString := client.GetQR()
	if qrString == "" {
		if client.IsLoggedIn() {
			c.String(http.StatusOK, "Already paired")
			return
		}
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}

	png, err := qrcode.Encode(qrString, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GetWhatsAppStatus reports pairing state.
func (h *AdminHandler) GetWhatsAppStatus(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	client := h.waManager.GetClient(tenantID)
	if client == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "initialized": false})
		return
	}

	phone, name := client.PairedInfo()
	c.JSON(http.StatusOK, gin.H{
		"connected":   client.IsLoggedIn(),
		"initialized": true,
		"phone":       phone,
		"name":        name,
		"hasQR":       client.GetQR() != "",
	})
}

// LogoutWhatsApp unlinks the tenant's device.
func (h *AdminHandler) LogoutWhatsApp(c *gin.Context) {
	tenantID := tenantScope(c)
	if tenantID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant bound to this account"})
		return
	}

	// Errors here mean the device is already unlinked; log and report success.
	if err := h.waManager.LogoutClient(tenantID); err != nil {
		h.log.Warn("whatsapp_logout", "tenant_id", tenantID, "error", err.Error())
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project_ria/internal/usecases"
)

// AuthHandler serves dashboard login and registration.
type AuthHandler struct {
	auth *usecases.AuthUsecase
}

func NewAuthHandler(auth *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), loginReq.Username, loginReq.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var regReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
		TenantID string `json:"tenant_id"`
	}
	if err := c.ShouldBindJSON(&regReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidSlug(regReq.Username) || len(regReq.Password) < 6 || !ValidSlug(regReq.TenantID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username, tenant or password (min 6 chars)"})
		return
	}
	if err := h.auth.Register(c.Request.Context(), regReq.Username, regReq.Password, regReq.TenantID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}

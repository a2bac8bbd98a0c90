package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopbook/backend/internal/storage/provider"
)

// SystemHandler serves health checks and backend selection.
type SystemHandler struct {
	BaseHandler
	stores *Stores
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(stores *Stores) *SystemHandler {
	return &SystemHandler{stores: stores}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"backend": string(h.stores.Kind()),
	})
}

// GetBackend handles GET /system/backend
func (h *SystemHandler) GetBackend(c *gin.Context) {
	h.Success(c, gin.H{"backend": string(h.stores.Kind())})
}

// SwitchBackend handles PUT /system/backend. The choice is persisted and
// survives restarts.
func (h *SystemHandler) SwitchBackend(c *gin.Context) {
	var req struct {
		Backend string `json:"backend" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	kind, err := provider.ParseKind(req.Backend)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.stores.Switch(c.Request.Context(), kind); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"backend": string(kind)})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopbook/backend/internal/domain/identity"
)

// IdentityHandler serves the tenant's own profile and the privileged
// cross-tenant listing.
type IdentityHandler struct {
	BaseHandler
	stores   *Stores
	tenantID string
}

// NewIdentityHandler creates a new IdentityHandler for the session's tenant.
func NewIdentityHandler(stores *Stores, tenantID string) *IdentityHandler {
	return &IdentityHandler{stores: stores, tenantID: tenantID}
}

// ProfileRequest represents a profile update
type ProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
	Role     string `json:"role"`
	ShopName string `json:"shop_name,omitempty"`
}

func toProfileResponse(p *identity.UserProfile) ProfileResponse {
	return ProfileResponse{
		TenantID: p.TenantID,
		Name:     p.Name,
		Email:    p.Email,
		PhotoURL: p.PhotoURL,
		Role:     string(p.Role),
	}
}

// GetProfile handles GET /profile
func (h *IdentityHandler) GetProfile(c *gin.Context) {
	profile, err := h.stores.Current().UserProfile(c.Request.Context(), h.tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if profile == nil {
		h.NotFound(c, "Profile not found")
		return
	}
	h.Success(c, toProfileResponse(profile))
}

// SaveProfile handles PUT /profile. Role is never writable through the API.
func (h *IdentityHandler) SaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store := h.stores.Current()
	role := identity.RoleNormal
	if existing, err := store.UserProfile(c.Request.Context(), h.tenantID); err == nil && existing != nil {
		role = existing.Role
	}

	profile := identity.UserProfile{
		TenantID: h.tenantID,
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
		Role:     role,
	}
	if err := store.SaveUserProfile(c.Request.Context(), profile); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProfileResponse(&profile))
}

// ListProfiles handles GET /profiles. Non-privileged tenants get an empty
// list, not an error.
func (h *IdentityHandler) ListProfiles(c *gin.Context) {
	infos, err := h.stores.Current().AllUserProfiles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]ProfileResponse, 0, len(infos))
	for i := range infos {
		pr := toProfileResponse(&infos[i].Profile)
		pr.ShopName = infos[i].ShopName
		resp = append(resp, pr)
	}
	h.Success(c, resp)
}

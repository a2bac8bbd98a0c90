package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopbook/backend/internal/domain/partner"
)

// PartnerHandler serves customers.
type PartnerHandler struct {
	BaseHandler
	stores *Stores
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(stores *Stores) *PartnerHandler {
	return &PartnerHandler{stores: stores}
}

// CustomerRequest represents customer creation/update input
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateCustomer handles POST /customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := partner.NewCustomer(req.Name, req.Phone, req.Address)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.stores.Current().AddCustomer(c.Request.Context(), customer); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCustomerResponse(customer))
}

// ListCustomers handles GET /customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.stores.Current().Customers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, toCustomerResponse(&customers[i]))
	}
	h.Success(c, resp)
}

// GetCustomer handles GET /customers/:id
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.stores.Current().CustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if customer == nil {
		h.NotFound(c, "Customer not found")
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// UpdateCustomer handles PUT /customers/:id
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer := &partner.Customer{
		ID:      c.Param("id"),
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.stores.Current().UpdateCustomer(c.Request.Context(), customer); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// DeleteCustomer handles DELETE /customers/:id
func (h *PartnerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.stores.Current().DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopbook/backend/internal/domain/trade"
	"github.com/shopbook/backend/internal/storage"
)

// TradeHandler serves sales and payments.
type TradeHandler struct {
	BaseHandler
	stores *Stores
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(stores *Stores) *TradeHandler {
	return &TradeHandler{stores: stores}
}

// SaleItemRequest represents one cart line
type SaleItemRequest struct {
	ProductBarcode string          `json:"product_barcode" binding:"required"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

// CompleteSaleRequest represents a sale commit request
type CompleteSaleRequest struct {
	Items           []SaleItemRequest `json:"items" binding:"required,min=1"`
	Total           decimal.Decimal   `json:"total"`
	Date            time.Time         `json:"date"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	NewCustomerName string            `json:"new_customer_name"`
	PaymentIDs      []string          `json:"payment_ids"`
}

// SaleItemResponse represents one committed sale line
type SaleItemResponse struct {
	ProductBarcode string          `json:"product_barcode"`
	ProductName    string          `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	CostSnapshot   decimal.Decimal `json:"cost_snapshot"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID           int64              `json:"id"`
	Items        []SaleItemResponse `json:"items"`
	Total        decimal.Decimal    `json:"total"`
	PaymentIDs   []string           `json:"payment_ids"`
	Date         time.Time          `json:"date"`
	CustomerID   string             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
}

func toSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductBarcode: it.ProductBarcode,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			CostSnapshot:   it.CostSnapshot,
		})
	}
	return SaleResponse{
		ID:           s.ID,
		Items:        items,
		Total:        s.Total,
		PaymentIDs:   s.PaymentIDs,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
	}
}

// CompleteSale handles POST /sales
func (h *TradeHandler) CompleteSale(c *gin.Context) {
	var req CompleteSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	draft := storage.SaleDraft{
		Total:           req.Total,
		Date:            req.Date,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		NewCustomerName: req.NewCustomerName,
		PaymentIDs:      req.PaymentIDs,
	}
	for _, it := range req.Items {
		draft.Items = append(draft.Items, storage.DraftItem{
			ProductBarcode: it.ProductBarcode,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
		})
	}

	sale, err := h.stores.Current().CompleteSale(c.Request.Context(), draft)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSaleResponse(sale))
}

// ListSales handles GET /sales
func (h *TradeHandler) ListSales(c *gin.Context) {
	sales, err := h.stores.Current().Sales(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, toSaleResponse(&sales[i]))
	}
	h.Success(c, resp)
}

// PaymentRequest represents a payment creation request
type PaymentRequest struct {
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Method      string              `json:"method" binding:"required"`
	Date        time.Time           `json:"date"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Date          time.Time       `json:"date"`
	AttachmentIDs []string        `json:"attachment_ids"`
}

func toPaymentResponse(p *trade.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Date:          p.Date,
		AttachmentIDs: p.AttachmentIDs,
	}
}

// CreatePayment handles POST /payments
func (h *TradeHandler) CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	payment, err := trade.NewPayment(req.Amount, trade.PaymentMethod(req.Method), req.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	id, err := h.stores.Current().AddPayment(c.Request.Context(), payment,
		toAttachments(req.Attachments))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	payment.ID = id
	h.Created(c, toPaymentResponse(payment))
}

// ListPayments handles GET /payments?ids=a,b,c
func (h *TradeHandler) ListPayments(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		h.BadRequest(c, "ids query parameter is required")
		return
	}
	ids := strings.Split(idsParam, ",")

	payments, err := h.stores.Current().PaymentsByIDs(c.Request.Context(), ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	h.Success(c, resp)
}

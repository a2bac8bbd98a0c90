package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopbook/backend/internal/domain/catalog"
)

// CatalogHandler serves products, cost titles, exchange rates and shop
// settings.
type CatalogHandler struct {
	BaseHandler
	stores *Stores
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(stores *Stores) *CatalogHandler {
	return &CatalogHandler{stores: stores}
}

// CostItemRequest represents one cost component of a product
type CostItemRequest struct {
	Title    string          `json:"title" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required"`
}

// ProductRequest represents a create/update product request
type ProductRequest struct {
	Barcode           string            `json:"barcode" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	Quantity          int               `json:"quantity"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	ProfitMargin      decimal.Decimal   `json:"profit_margin"`
	Costs             []CostItemRequest `json:"costs"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	Barcode           string            `json:"barcode"`
	Name              string            `json:"name"`
	SellingPrice      decimal.Decimal   `json:"selling_price"`
	Quantity          int               `json:"quantity"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	ProfitMargin      decimal.Decimal   `json:"profit_margin"`
	Costs             []CostItemRequest `json:"costs"`
	LowStock          bool              `json:"low_stock"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	costs := make([]CostItemRequest, 0, len(p.Costs))
	for _, c := range p.Costs {
		costs = append(costs, CostItemRequest{
			Title:    c.Title,
			Amount:   c.Amount,
			Currency: string(c.Currency),
		})
	}
	return ProductResponse{
		Barcode:           p.Barcode,
		Name:              p.Name,
		SellingPrice:      p.SellingPrice,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		ProfitMargin:      p.ProfitMargin,
		Costs:             costs,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (r ProductRequest) costItems() []catalog.CostItem {
	costs := make([]catalog.CostItem, 0, len(r.Costs))
	for _, c := range r.Costs {
		costs = append(costs, catalog.CostItem{
			Title:    c.Title,
			Amount:   c.Amount,
			Currency: catalog.Currency(c.Currency),
		})
	}
	return costs
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store := h.stores.Current()
	rates, err := store.ExchangeRates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := catalog.NewProduct(req.Barcode, req.Name, req.Quantity,
		req.LowStockThreshold, req.ProfitMargin, req.costItems(), rates)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := store.AddProduct(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductResponse(product))
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.stores.Current().Products(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	h.Success(c, resp)
}

// GetProduct handles GET /products/:barcode
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.stores.Current().ProductByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if product == nil {
		h.NotFound(c, "Product not found")
		return
	}
	h.Success(c, toProductResponse(product))
}

// UpdateProduct handles PUT /products/:barcode. The body may carry a new
// barcode, in which case the product is rekeyed.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store := h.stores.Current()
	rates, err := store.ExchangeRates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := catalog.NewProduct(req.Barcode, req.Name, req.Quantity,
		req.LowStockThreshold, req.ProfitMargin, req.costItems(), rates)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := store.UpdateProduct(c.Request.Context(), c.Param("barcode"), product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// DeleteProduct handles DELETE /products/:barcode
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.stores.Current().DeleteProduct(c.Request.Context(), c.Param("barcode")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetExchangeRates handles GET /settings/exchange-rates
func (h *CatalogHandler) GetExchangeRates(c *gin.Context) {
	rates, err := h.stores.Current().ExchangeRates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// SaveExchangeRates handles PUT /settings/exchange-rates
func (h *CatalogHandler) SaveExchangeRates(c *gin.Context) {
	var rates map[string]decimal.Decimal
	if err := c.ShouldBindJSON(&rates); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	table := make(catalog.ExchangeRates, len(rates))
	for currency, rate := range rates {
		table[catalog.Currency(currency)] = rate
	}
	if err := h.stores.Current().SaveExchangeRates(c.Request.Context(), table); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, table)
}

// AppSettingsRequest represents a settings update
type AppSettingsRequest struct {
	ShopName string `json:"shop_name"`
}

// GetSettings handles GET /settings
func (h *CatalogHandler) GetSettings(c *gin.Context) {
	settings, err := h.stores.Current().AppSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"shop_name": settings.ShopName})
}

// SaveSettings handles PUT /settings
func (h *CatalogHandler) SaveSettings(c *gin.Context) {
	var req AppSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	settings := catalog.AppSettings{ShopName: req.ShopName}
	if err := h.stores.Current().SaveAppSettings(c.Request.Context(), settings); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"shop_name": settings.ShopName})
}

// CostTitleResponse represents a reusable cost title
type CostTitleResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListCostTitles handles GET /settings/cost-titles
func (h *CatalogHandler) ListCostTitles(c *gin.Context) {
	titles, err := h.stores.Current().CostTitles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]CostTitleResponse, 0, len(titles))
	for _, t := range titles {
		resp = append(resp, CostTitleResponse{ID: t.ID, Title: t.Title})
	}
	h.Success(c, resp)
}

// AddCostTitle handles POST /settings/cost-titles
func (h *CatalogHandler) AddCostTitle(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	title, err := h.stores.Current().AddCostTitle(c.Request.Context(), req.Title)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CostTitleResponse{ID: title.ID, Title: title.Title})
}

// DeleteCostTitle handles DELETE /settings/cost-titles/:id
func (h *CatalogHandler) DeleteCostTitle(c *gin.Context) {
	if err := h.stores.Current().DeleteCostTitle(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

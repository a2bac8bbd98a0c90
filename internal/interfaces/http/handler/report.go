package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopbook/backend/internal/application/report"
	"github.com/shopbook/backend/internal/infrastructure/ai"
)

// ReportHandler serves business reports, the spreadsheet export and AI
// recommendations.
type ReportHandler struct {
	BaseHandler
	stores  *Stores
	advisor *ai.Advisor
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler. The advisor may be nil when
// AI is not configured.
func NewReportHandler(stores *Stores, advisor *ai.Advisor, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{stores: stores, advisor: advisor, logger: logger}
}

// service builds a report service over the currently active backend.
func (h *ReportHandler) service() *report.Service {
	return report.NewService(h.stores.Current(), h.logger)
}

// parsePeriod reads optional from/to query parameters in YYYY-MM-DD form.
func parsePeriod(c *gin.Context) (from, to time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return
		}
		// Make "to" inclusive of the whole day
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return
}

// Summary handles GET /reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}
	summary, err := h.service().Summary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// UnitsSold handles GET /reports/units-sold
func (h *ReportHandler) UnitsSold(c *gin.Context) {
	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}
	sold, err := h.service().UnitsSold(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sold)
}

// LowStock handles GET /reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	products, err := h.service().LowStock(c.Request.Context())
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

// Export handles GET /reports/export, returning an xlsx workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}
	data, err := h.service().ExportExcel(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="report.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Recommendations handles GET /reports/recommendations
func (h *ReportHandler) Recommendations(c *gin.Context) {
	if h.advisor == nil {
		h.HandleError(c, ai.ErrDisabled)
		return
	}

	stockJSON, salesJSON, err := h.service().AdvisorSnapshots(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	advice, err := h.advisor.Recommend(c.Request.Context(), stockJSON, salesJSON)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"recommendations": advice})
}

package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shopbook/backend/internal/domain/finance"
)

// FinanceHandler serves expenses, recurring expenses, employees, attachments
// and file uploads.
type FinanceHandler struct {
	BaseHandler
	stores *Stores
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(stores *Stores) *FinanceHandler {
	return &FinanceHandler{stores: stores}
}

// AttachmentRequest represents a receipt attached to an expense or payment
type AttachmentRequest struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ReceiptNo   string    `json:"receipt_no"`
	Image       string    `json:"image"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	OwnerKind   string    `json:"owner_kind"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ReceiptNo   string    `json:"receipt_no"`
	Image       string    `json:"image"`
}

func toAttachments(reqs []AttachmentRequest) []finance.Attachment {
	attachments := make([]finance.Attachment, 0, len(reqs))
	for _, r := range reqs {
		date := r.Date
		if date.IsZero() {
			date = time.Now()
		}
		attachments = append(attachments, finance.Attachment{
			Date:        date,
			Description: r.Description,
			ReceiptNo:   r.ReceiptNo,
			Image:       r.Image,
		})
	}
	return attachments
}

func toAttachmentResponse(a *finance.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		SourceID:    a.SourceID,
		OwnerKind:   string(a.OwnerKind),
		Date:        a.Date,
		Description: a.Description,
		ReceiptNo:   a.ReceiptNo,
		Image:       a.Image,
	}
}

// ExpenseRequest represents expense creation/update input
type ExpenseRequest struct {
	Title       string              `json:"title" binding:"required"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Date        time.Time           `json:"date"`
	Attachments []AttachmentRequest `json:"attachments"`
	// RemoveAttachmentIDs only applies to updates.
	RemoveAttachmentIDs []string `json:"remove_attachment_ids"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	AttachmentIDs []string        `json:"attachment_ids"`
}

func toExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Title:         e.Title,
		Amount:        e.Amount,
		Date:          e.Date,
		AttachmentIDs: e.AttachmentIDs,
	}
}

// CreateExpense handles POST /expenses
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	expense, err := finance.NewExpense(req.Title, req.Amount, req.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.stores.Current().AddExpense(c.Request.Context(), expense,
		toAttachments(req.Attachments)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /expenses/:id
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	expense := &finance.Expense{
		ID:     c.Param("id"),
		Title:  req.Title,
		Amount: req.Amount,
		Date:   req.Date,
	}
	if err := h.stores.Current().UpdateExpense(c.Request.Context(), expense,
		toAttachments(req.Attachments), req.RemoveAttachmentIDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toExpenseResponse(expense))
}

// ListExpenses handles GET /expenses
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.stores.Current().Expenses(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, toExpenseResponse(&expenses[i]))
	}
	h.Success(c, resp)
}

// DeleteExpense handles DELETE /expenses/:id
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	if err := h.stores.Current().DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecurringExpenseRequest represents recurring expense creation input
type RecurringExpenseRequest struct {
	Title     string          `json:"title" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Frequency string          `json:"frequency" binding:"required"`
	StartDate time.Time       `json:"start_date"`
}

// RecurringExpenseResponse represents a recurring expense in API responses
type RecurringExpenseResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
	LastApplied *time.Time      `json:"last_applied,omitempty"`
}

func toRecurringResponse(r *finance.RecurringExpense) RecurringExpenseResponse {
	return RecurringExpenseResponse{
		ID:          r.ID,
		Title:       r.Title,
		Amount:      r.Amount,
		Frequency:   string(r.Frequency),
		StartDate:   r.StartDate,
		LastApplied: r.LastApplied,
	}
}

// CreateRecurringExpense handles POST /recurring-expenses
func (h *FinanceHandler) CreateRecurringExpense(c *gin.Context) {
	var req RecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.StartDate.IsZero() {
		req.StartDate = time.Now()
	}

	recurring, err := finance.NewRecurringExpense(req.Title, req.Amount,
		finance.Frequency(req.Frequency), req.StartDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.stores.Current().AddRecurringExpense(c.Request.Context(), recurring); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toRecurringResponse(recurring))
}

// ListRecurringExpenses handles GET /recurring-expenses
func (h *FinanceHandler) ListRecurringExpenses(c *gin.Context) {
	recurring, err := h.stores.Current().RecurringExpenses(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]RecurringExpenseResponse, 0, len(recurring))
	for i := range recurring {
		resp = append(resp, toRecurringResponse(&recurring[i]))
	}
	h.Success(c, resp)
}

// DeleteRecurringExpense handles DELETE /recurring-expenses/:id
func (h *FinanceHandler) DeleteRecurringExpense(c *gin.Context) {
	if err := h.stores.Current().DeleteRecurringExpense(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyRecurringExpenses handles POST /recurring-expenses/apply. It converts
// every due period into a concrete expense and reports how many were created.
func (h *FinanceHandler) ApplyRecurringExpenses(c *gin.Context) {
	created, err := h.stores.Current().ApplyRecurringExpenses(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"created": created})
}

// EmployeeRequest represents employee creation input
type EmployeeRequest struct {
	Name          string          `json:"name" binding:"required"`
	Position      string          `json:"position"`
	MonthlySalary decimal.Decimal `json:"monthly_salary" binding:"required"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Position           string          `json:"position"`
	MonthlySalary      decimal.Decimal `json:"monthly_salary"`
	RecurringExpenseID string          `json:"recurring_expense_id"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toEmployeeResponse(e *finance.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                 e.ID,
		Name:               e.Name,
		Position:           e.Position,
		MonthlySalary:      e.MonthlySalary,
		RecurringExpenseID: e.RecurringExpenseID,
		CreatedAt:          e.CreatedAt,
	}
}

// CreateEmployee handles POST /employees. The matching salary recurring
// expense is created in the same operation.
func (h *FinanceHandler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.stores.Current().AddEmployee(c.Request.Context(),
		req.Name, req.Position, req.MonthlySalary)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toEmployeeResponse(employee))
}

// ListEmployees handles GET /employees
func (h *FinanceHandler) ListEmployees(c *gin.Context) {
	employees, err := h.stores.Current().Employees(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, toEmployeeResponse(&employees[i]))
	}
	h.Success(c, resp)
}

// DeleteEmployee handles DELETE /employees/:id. The paired salary recurring
// expense goes with it.
func (h *FinanceHandler) DeleteEmployee(c *gin.Context) {
	if err := h.stores.Current().DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListAttachments handles GET /attachments?source_id=...
func (h *FinanceHandler) ListAttachments(c *gin.Context) {
	sourceID := c.Query("source_id")
	if sourceID == "" {
		h.BadRequest(c, "source_id query parameter is required")
		return
	}
	attachments, err := h.stores.Current().AttachmentsByOwner(c.Request.Context(), sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		resp = append(resp, toAttachmentResponse(&attachments[i]))
	}
	h.Success(c, resp)
}

// UploadFile handles POST /files. Accepts a multipart "file" field and
// returns the opaque reference to store in attachment images.
func (h *FinanceHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "failed to read uploaded file")
		return
	}

	ref, err := h.stores.Current().UploadFile(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"reference": ref})
}

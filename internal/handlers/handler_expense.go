package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense submission and retrieval requests.
type ExpenseHandler struct {
	expenseService  portssvc.ExpenseSvcFacade
	approvalService portssvc.ApprovalSvcFacade
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(es portssvc.ExpenseSvcFacade, as portssvc.ApprovalSvcFacade) *ExpenseHandler {
	return &ExpenseHandler{expenseService: es, approvalService: as}
}

// registerExpenseRoutes sets up the routes for expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, es portssvc.ExpenseSvcFacade, as portssvc.ApprovalSvcFacade) {
	h := NewExpenseHandler(es, as)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.SubmitExpense)
		expenses.GET("", h.ListExpenses)
		expenses.GET("/:expenseID", h.GetExpense)
		expenses.POST("/:expenseID/approve", h.Decide)
	}
}

// SubmitExpense godoc
// @Summary Submit an expense
// @Description Creates an expense and materializes its approval flow. Accepts an optional receipt file part named "receipt".
// @Tags expenses
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param amount formData string true "Amount"
// @Param currency formData string true "Currency code"
// @Param category formData string true "Category"
// @Param date formData string true "Expense date (YYYY-MM-DD)"
// @Param receipt formData file false "Receipt"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) SubmitExpense(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	// The receipt file part is optional.
	var receipt io.Reader
	var receiptName string
	if file, header, err := c.Request.FormFile("receipt"); err == nil {
		defer file.Close()
		receipt = file
		receiptName = header.Filename
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), userID, req, receipt, receiptName)
	if err != nil {
		respondError(c, err)
		return
	}

	flow, _ := h.approvalService.GetFlowForExpense(c.Request.Context(), expense.ExpenseID)
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(*expense, flow))
}

// ListExpenses godoc
// @Summary List expenses visible to the authenticated user
// @Description Admins see all company expenses, managers their own, their team's and those awaiting them, employees their own.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ExpenseResponse
// @Failure 401 {object} ErrorResponse
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = dto.ToExpenseResponse(e, nil)
	}
	c.JSON(http.StatusOK, out)
}

// GetExpense godoc
// @Summary Get an expense with its approval flow
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /expenses/{expenseID} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("expenseID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	flow, err := h.approvalService.GetFlowForExpense(c.Request.Context(), expense.ExpenseID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(*expense, flow))
}

// Decide godoc
// @Summary Approve or reject an expense
// @Description Records the authenticated approver's decision on their pending step.
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param expenseID path string true "Expense ID"
// @Param decision body dto.DecideRequest true "Decision"
// @Success 200 {object} dto.DecideResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No flow or no pending step for this approver"
// @Failure 409 {object} ErrorResponse "Flow already completed"
// @Router /expenses/{expenseID}/approve [post]
func (h *ExpenseHandler) Decide(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	expenseID := c.Param("expenseID")
	result, err := h.approvalService.Decide(c.Request.Context(), expenseID, userID, domain.ApprovalAction(req.Action), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DecideResponse{
		ExpenseID:     expenseID,
		Action:        req.Action,
		Comment:       result.Step.Comment,
		FlowStatus:    string(result.FlowStatus),
		ExpenseStatus: string(result.ExpenseStatus),
	})
}

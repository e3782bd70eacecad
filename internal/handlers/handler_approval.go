package handlers

import (
	"net/http"

	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler handles the approver's inbox.
type ApprovalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
	expenseService  portssvc.ExpenseSvcFacade
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(as portssvc.ApprovalSvcFacade, es portssvc.ExpenseSvcFacade) *ApprovalHandler {
	return &ApprovalHandler{approvalService: as, expenseService: es}
}

// registerApprovalRoutes sets up the routes for pending approvals.
func registerApprovalRoutes(rg *gin.RouterGroup, as portssvc.ApprovalSvcFacade, es portssvc.ExpenseSvcFacade) {
	h := NewApprovalHandler(as, es)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/pending", h.ListPending)
	}
}

// ListPending godoc
// @Summary List expenses awaiting the authenticated approver
// @Tags approvals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PendingApprovalResponse
// @Failure 401 {object} ErrorResponse
// @Router /approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	steps, err := h.approvalService.ListPendingApprovals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.PendingApprovalResponse, 0, len(steps))
	for _, step := range steps {
		flow, err := h.approvalService.GetFlowByID(c.Request.Context(), step.FlowID)
		if err != nil {
			respondError(c, err)
			return
		}
		expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), flow.ExpenseID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, dto.PendingApprovalResponse{
			Expense: dto.ToExpenseResponse(*expense, flow),
			Step:    dto.ToApprovalStepResponse(step),
		})
	}
	c.JSON(http.StatusOK, out)
}

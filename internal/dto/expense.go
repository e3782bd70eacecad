package dto

import (
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the multipart form payload for submitting an
// expense. The receipt file part is read separately by the handler.
type CreateExpenseRequest struct {
	Title       string          `form:"title" binding:"required"`
	Description string          `form:"description"`
	Amount      decimal.Decimal `form:"amount" binding:"required"`
	Currency    string          `form:"currency" binding:"required,len=3"`
	Category    string          `form:"category" binding:"required,oneof=TRAVEL MEALS OFFICE_SUPPLIES MARKETING TRAINING UTILITIES OTHER"`
	Date        time.Time       `form:"date" time_format:"2006-01-02" binding:"required"`
}

// DecideRequest is one approver's decision on an expense awaiting them.
type DecideRequest struct {
	Action  string  `json:"action" binding:"required,oneof=APPROVED REJECTED"`
	Comment *string `json:"comment,omitempty"`
}

// ApprovalStepResponse is the API shape of one approver slot.
type ApprovalStepResponse struct {
	StepID     string     `json:"stepID"`
	StepNumber int        `json:"stepNumber"`
	ApproverID string     `json:"approverID"`
	Status     string     `json:"status"`
	Comment    *string    `json:"comment,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

// ApprovalFlowResponse is the API shape of a flow and its steps.
type ApprovalFlowResponse struct {
	FlowID      string                 `json:"flowID"`
	ExpenseID   string                 `json:"expenseID"`
	RuleID      *string                `json:"ruleID,omitempty"`
	CurrentStep int                    `json:"currentStep"`
	IsCompleted bool                   `json:"isCompleted"`
	Steps       []ApprovalStepResponse `json:"steps"`
}

// ExpenseResponse is the API shape of an expense, optionally with its flow.
type ExpenseResponse struct {
	ExpenseID       string                `json:"expenseID"`
	CompanyID       string                `json:"companyID"`
	SubmitterID     string                `json:"submitterID"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	Amount          decimal.Decimal       `json:"amount"`
	Currency        string                `json:"currency"`
	ConvertedAmount *decimal.Decimal      `json:"convertedAmount,omitempty"`
	Category        string                `json:"category"`
	ExpenseDate     time.Time             `json:"expenseDate"`
	ReceiptURL      *string               `json:"receiptURL,omitempty"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"createdAt"`
	ApprovalFlow    *ApprovalFlowResponse `json:"approvalFlow,omitempty"`
}

// DecideResponse reports the outcome of a decision call.
type DecideResponse struct {
	ExpenseID     string  `json:"expenseID"`
	Action        string  `json:"action"`
	Comment       *string `json:"comment,omitempty"`
	FlowStatus    string  `json:"flowStatus"`
	ExpenseStatus string  `json:"expenseStatus"`
}

// PendingApprovalResponse is one expense awaiting the acting approver.
type PendingApprovalResponse struct {
	Expense ExpenseResponse      `json:"expense"`
	Step    ApprovalStepResponse `json:"step"`
}

// ToApprovalStepResponse maps a domain step to its API shape.
func ToApprovalStepResponse(s domain.ApprovalStep) ApprovalStepResponse {
	return ApprovalStepResponse{
		StepID:     s.StepID,
		StepNumber: s.StepNumber,
		ApproverID: s.ApproverID,
		Status:     string(s.Status),
		Comment:    s.Comment,
		ApprovedAt: s.ApprovedAt,
	}
}

// ToApprovalFlowResponse maps a domain flow (with steps) to its API shape.
func ToApprovalFlowResponse(f domain.ApprovalFlow) ApprovalFlowResponse {
	steps := make([]ApprovalStepResponse, len(f.Steps))
	for i, s := range f.Steps {
		steps[i] = ToApprovalStepResponse(s)
	}
	return ApprovalFlowResponse{
		FlowID:      f.FlowID,
		ExpenseID:   f.ExpenseID,
		RuleID:      f.RuleID,
		CurrentStep: f.CurrentStep,
		IsCompleted: f.IsCompleted,
		Steps:       steps,
	}
}

// ToExpenseResponse maps a domain expense to its API shape.
func ToExpenseResponse(e domain.Expense, flow *domain.ApprovalFlow) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:       e.ExpenseID,
		CompanyID:       e.CompanyID,
		SubmitterID:     e.SubmitterID,
		Title:           e.Title,
		Description:     e.Description,
		Amount:          e.Amount,
		Currency:        e.Currency,
		ConvertedAmount: e.ConvertedAmount,
		Category:        string(e.Category),
		ExpenseDate:     e.ExpenseDate,
		ReceiptURL:      e.ReceiptURL,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
	}
	if flow != nil {
		fr := ToApprovalFlowResponse(*flow)
		resp.ApprovalFlow = &fr
	}
	return resp
}

package domain

import "time"

// StepStatus is the state of one approver's slot within a flow.
type StepStatus string

const (
	StepPending  StepStatus = "PENDING"
	StepApproved StepStatus = "APPROVED"
	StepRejected StepStatus = "REJECTED"
)

// ApprovalAction is an approver's decision on their step.
type ApprovalAction string

const (
	ActionApprove ApprovalAction = "APPROVED"
	ActionReject  ApprovalAction = "REJECTED"
)

// Valid reports whether the action is one of the accepted values.
func (a ApprovalAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// ApprovalFlow is the per-expense approval workflow instance, 1:1 with its
// expense. RuleID is nil on the no-rule default path. CurrentStep is only
// meaningful for sequential (no-rule) flows.
type ApprovalFlow struct {
	FlowID      string         `json:"flowID"`
	ExpenseID   string         `json:"expenseID"`
	RuleID      *string        `json:"ruleID,omitempty"`
	CurrentStep int            `json:"currentStep"`
	IsCompleted bool           `json:"isCompleted"`
	Steps       []ApprovalStep `json:"steps,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ApprovalStep is one approver's slot within a flow. Steps sharing a
// StepNumber form a parallel cohort. A step is mutated exactly once, from
// PENDING to a terminal status, by its designated approver.
type ApprovalStep struct {
	StepID     string     `json:"stepID"`
	FlowID     string     `json:"flowID"`
	StepNumber int        `json:"stepNumber"`
	ApproverID string     `json:"approverID"`
	Status     StepStatus `json:"status"`
	Comment    *string    `json:"comment,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PendingStepFor returns the flow's PENDING step assigned to approverID, or
// nil if there is none. Steps are scanned in stepNumber order.
func (f *ApprovalFlow) PendingStepFor(approverID string) *ApprovalStep {
	for i := range f.Steps {
		if f.Steps[i].ApproverID == approverID && f.Steps[i].Status == StepPending {
			return &f.Steps[i]
		}
	}
	return nil
}

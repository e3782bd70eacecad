package domain

// FlowMutation is the set of writes one decision produces. The flow
// repository applies it atomically together with the lock-protected read
// that produced it.
type FlowMutation struct {
	// Step is the actor's step with its terminal status, comment and
	// timestamp filled in.
	Step ApprovalStep
	// AdvanceStep moves a sequential flow's currentStep pointer forward.
	AdvanceStep bool
	// FinalStatus is APPROVED or REJECTED when the flow reached a terminal
	// decision, ExpensePending otherwise.
	FinalStatus ExpenseStatus
	// ActorID stamps audit fields on the mutated rows.
	ActorID string
}

// DecisionResult reports the outcome of one approver's decision.
type DecisionResult struct {
	FlowStatus    ExpenseStatus `json:"flowStatus"`
	ExpenseStatus ExpenseStatus `json:"expenseStatus"`
	Step          ApprovalStep  `json:"step"`
}

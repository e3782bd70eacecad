package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalRule is the persistence shape of an approval rule.
type ApprovalRule struct {
	RuleID              string              `db:"rule_id"`
	CompanyID           string              `db:"company_id"`
	Name                string              `db:"name"`
	RuleType            string              `db:"rule_type"`
	PercentageThreshold decimal.NullDecimal `db:"percentage_threshold"`
	SpecificApproverID  sql.NullString      `db:"specific_approver_id"`
	IsManagerFirst      bool                `db:"is_manager_first"`
	MinAmount           decimal.NullDecimal `db:"min_amount"`
	MaxAmount           decimal.NullDecimal `db:"max_amount"`
	IsActive            bool                `db:"is_active"`
	AuditFields
}

// ApprovalFlow is the persistence shape of a per-expense flow. The table
// carries a unique constraint on expense_id.
type ApprovalFlow struct {
	FlowID      string         `db:"flow_id"`
	ExpenseID   string         `db:"expense_id"`
	RuleID      sql.NullString `db:"rule_id"`
	CurrentStep int            `db:"current_step"`
	IsCompleted bool           `db:"is_completed"`
	CreatedAt   time.Time      `db:"created_at"`
}

// ApprovalStep is the persistence shape of one approver slot.
type ApprovalStep struct {
	StepID     string         `db:"step_id"`
	FlowID     string         `db:"flow_id"`
	StepNumber int            `db:"step_number"`
	ApproverID string         `db:"approver_id"`
	Status     string         `db:"status"`
	Comment    sql.NullString `db:"comment"`
	ApprovedAt sql.NullTime   `db:"approved_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

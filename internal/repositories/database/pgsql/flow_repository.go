package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	"github.com/expenza/expense_flow_app/internal/models"
	"github.com/expenza/expense_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stepColumns = `step_id, flow_id, step_number, approver_id, status, comment, approved_at, created_at`

type PgxFlowRepository struct {
	BaseRepository
}

func newPgxFlowRepository(pool *pgxpool.Pool) portsrepo.ApprovalFlowRepository {
	return &PgxFlowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ApprovalFlowRepository = (*PgxFlowRepository)(nil)

func scanStep(row pgx.Row) (*models.ApprovalStep, error) {
	var m models.ApprovalStep
	err := row.Scan(
		&m.StepID,
		&m.FlowID,
		&m.StepNumber,
		&m.ApproverID,
		&m.Status,
		&m.Comment,
		&m.ApprovedAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveFlow persists the flow row and all its steps in one transaction.
func (r *PgxFlowRepository) SaveFlow(ctx context.Context, flow domain.ApprovalFlow, steps []domain.ApprovalStep) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelApprovalFlow(flow)
	flowQuery := `
        INSERT INTO approval_flows (flow_id, expense_id, rule_id, current_step, is_completed, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err = tx.Exec(ctx, flowQuery,
		m.FlowID,
		m.ExpenseID,
		m.RuleID,
		m.CurrentStep,
		m.IsCompleted,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("expense already has an approval flow: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert approval flow: %w", err)
	}

	stepQuery := `
        INSERT INTO approval_steps (step_id, flow_id, step_number, approver_id, status, comment, approved_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	for _, step := range steps {
		ms := mapping.ToModelApprovalStep(step)
		_, err = tx.Exec(ctx, stepQuery,
			ms.StepID,
			ms.FlowID,
			ms.StepNumber,
			ms.ApproverID,
			ms.Status,
			ms.Comment,
			ms.ApprovedAt,
			ms.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert approval step: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxFlowRepository) FindFlowByExpenseID(ctx context.Context, expenseID string) (*domain.ApprovalFlow, error) {
	return r.findFlow(ctx, `WHERE expense_id = $1`, expenseID)
}

func (r *PgxFlowRepository) FindFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	return r.findFlow(ctx, `WHERE flow_id = $1`, flowID)
}

func (r *PgxFlowRepository) findFlow(ctx context.Context, where string, arg any) (*domain.ApprovalFlow, error) {
	query := fmt.Sprintf(`
        SELECT flow_id, expense_id, rule_id, current_step, is_completed, created_at
        FROM approval_flows
        %s;
    `, where)
	var m models.ApprovalFlow
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&m.FlowID,
		&m.ExpenseID,
		&m.RuleID,
		&m.CurrentStep,
		&m.IsCompleted,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find approval flow: %w", err)
	}

	flow := mapping.ToDomainApprovalFlow(m)
	steps, err := r.loadSteps(ctx, r.Pool, flow.FlowID)
	if err != nil {
		return nil, err
	}
	flow.Steps = steps
	return &flow, nil
}

// queryRunner abstracts between pool and transaction for step loading.
type queryRunner interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxFlowRepository) loadSteps(ctx context.Context, q queryRunner, flowID string) ([]domain.ApprovalStep, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM approval_steps
        WHERE flow_id = $1
        ORDER BY step_number ASC, created_at ASC;
    `, stepColumns)
	rows, err := q.Query(ctx, query, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval steps: %w", err)
	}
	defer rows.Close()

	modelSteps := []models.ApprovalStep{}
	for rows.Next() {
		m, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval step row: %w", err)
		}
		modelSteps = append(modelSteps, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating approval step rows: %w", rows.Err())
	}
	return mapping.ToDomainApprovalStepSlice(modelSteps), nil
}

func (r *PgxFlowRepository) ListPendingStepsForApprover(ctx context.Context, approverID string) ([]domain.ApprovalStep, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM approval_steps s
        WHERE s.approver_id = $1
          AND s.status = 'PENDING'
          AND EXISTS (
              SELECT 1 FROM approval_flows f
              WHERE f.flow_id = s.flow_id AND f.is_completed = FALSE
          )
        ORDER BY s.created_at DESC;
    `, stepAliasColumns("s"))
	rows, err := r.Pool.Query(ctx, query, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending steps: %w", err)
	}
	defer rows.Close()

	modelSteps := []models.ApprovalStep{}
	for rows.Next() {
		m, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending step row: %w", err)
		}
		modelSteps = append(modelSteps, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating pending step rows: %w", rows.Err())
	}
	return mapping.ToDomainApprovalStepSlice(modelSteps), nil
}

// DecideStep serializes one approver decision against the flow. It locks the
// flow row, reloads the steps and rule under that lock, hands them to decide,
// and applies the resulting writes before committing. Two concurrent
// decisions on the same flow therefore run strictly one after the other, and
// the second sees the first one's writes.
func (r *PgxFlowRepository) DecideStep(ctx context.Context, flowID string, decide portsrepo.DecideFunc) (*domain.DecisionResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var m models.ApprovalFlow
	lockQuery := `
        SELECT flow_id, expense_id, rule_id, current_step, is_completed, created_at
        FROM approval_flows
        WHERE flow_id = $1
        FOR UPDATE;
    `
	err = tx.QueryRow(ctx, lockQuery, flowID).Scan(
		&m.FlowID,
		&m.ExpenseID,
		&m.RuleID,
		&m.CurrentStep,
		&m.IsCompleted,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock approval flow: %w", err)
	}

	flow := mapping.ToDomainApprovalFlow(m)
	flow.Steps, err = r.loadSteps(ctx, tx, flow.FlowID)
	if err != nil {
		return nil, err
	}

	var rule *domain.ApprovalRule
	if flow.RuleID != nil {
		ruleQuery := fmt.Sprintf(`SELECT %s FROM approval_rules WHERE rule_id = $1;`, ruleColumns)
		mr, err := scanRule(tx.QueryRow(ctx, ruleQuery, *flow.RuleID))
		if err != nil {
			return nil, fmt.Errorf("failed to load rule for decision: %w", err)
		}
		dr := mapping.ToDomainApprovalRule(*mr)
		rule = &dr
	}

	mutation, err := decide(flow, rule)
	if err != nil {
		return nil, err
	}

	stepUpdate := `
        UPDATE approval_steps
        SET status = $1, comment = $2, approved_at = $3
        WHERE step_id = $4;
    `
	ms := mapping.ToModelApprovalStep(mutation.Step)
	cmdTag, err := tx.Exec(ctx, stepUpdate, ms.Status, ms.Comment, ms.ApprovedAt, ms.StepID)
	if err != nil {
		return nil, fmt.Errorf("failed to update approval step: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("approval step not found: %w", apperrors.ErrNotFound)
	}

	completed := mutation.FinalStatus.IsTerminal()
	currentStep := flow.CurrentStep
	if mutation.AdvanceStep {
		currentStep++
	}
	flowUpdate := `
        UPDATE approval_flows
        SET current_step = $1, is_completed = $2
        WHERE flow_id = $3;
    `
	if _, err := tx.Exec(ctx, flowUpdate, currentStep, completed, flow.FlowID); err != nil {
		return nil, fmt.Errorf("failed to update approval flow: %w", err)
	}

	if completed {
		expenseUpdate := `
            UPDATE expenses
            SET status = $1, last_updated_at = $2, last_updated_by = $3
            WHERE expense_id = $4;
        `
		if _, err := tx.Exec(ctx, expenseUpdate, string(mutation.FinalStatus), time.Now(), mutation.ActorID, flow.ExpenseID); err != nil {
			return nil, fmt.Errorf("failed to update expense status: %w", err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	expenseStatus := domain.ExpensePending
	if completed {
		expenseStatus = mutation.FinalStatus
	}
	return &domain.DecisionResult{
		FlowStatus:    mutation.FinalStatus,
		ExpenseStatus: expenseStatus,
		Step:          mutation.Step,
	}, nil
}

// stepAliasColumns qualifies stepColumns with a table alias.
func stepAliasColumns(alias string) string {
	return alias + ".step_id, " + alias + ".flow_id, " + alias + ".step_number, " +
		alias + ".approver_id, " + alias + ".status, " + alias + ".comment, " +
		alias + ".approved_at, " + alias + ".created_at"
}

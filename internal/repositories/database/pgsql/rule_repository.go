package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	"github.com/expenza/expense_flow_app/internal/models"
	"github.com/expenza/expense_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `rule_id, company_id, name, rule_type, percentage_threshold, specific_approver_id,
	is_manager_first, min_amount, max_amount, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.ApprovalRuleRepository {
	return &PgxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ApprovalRuleRepository = (*PgxRuleRepository)(nil)

func scanRule(row pgx.Row) (*models.ApprovalRule, error) {
	var m models.ApprovalRule
	err := row.Scan(
		&m.RuleID,
		&m.CompanyID,
		&m.Name,
		&m.RuleType,
		&m.PercentageThreshold,
		&m.SpecificApproverID,
		&m.IsManagerFirst,
		&m.MinAmount,
		&m.MaxAmount,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectRules(rows pgx.Rows) ([]domain.ApprovalRule, error) {
	defer rows.Close()
	modelRules := []models.ApprovalRule{}
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval rule row: %w", err)
		}
		modelRules = append(modelRules, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating approval rule rows: %w", rows.Err())
	}
	return mapping.ToDomainApprovalRuleSlice(modelRules), nil
}

func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.ApprovalRule) error {
	m := mapping.ToModelApprovalRule(rule)
	query := `
        INSERT INTO approval_rules (rule_id, company_id, name, rule_type, percentage_threshold,
            specific_approver_id, is_manager_first, min_amount, max_amount, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.RuleID,
		m.CompanyID,
		m.Name,
		m.RuleType,
		m.PercentageThreshold,
		m.SpecificApproverID,
		m.IsManagerFirst,
		m.MinAmount,
		m.MaxAmount,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save approval rule: %w", err)
	}
	return nil
}

func (r *PgxRuleRepository) UpdateRule(ctx context.Context, rule domain.ApprovalRule) error {
	m := mapping.ToModelApprovalRule(rule)
	query := `
        UPDATE approval_rules
        SET name = $1, rule_type = $2, percentage_threshold = $3, specific_approver_id = $4,
            is_manager_first = $5, min_amount = $6, max_amount = $7, is_active = $8,
            last_updated_at = $9, last_updated_by = $10
        WHERE rule_id = $11;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.RuleType,
		m.PercentageThreshold,
		m.SpecificApproverID,
		m.IsManagerFirst,
		m.MinAmount,
		m.MaxAmount,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.RuleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update approval rule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("approval rule not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM approval_rules WHERE rule_id = $1;`, ruleColumns)
	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find approval rule by ID %s: %w", ruleID, err)
	}
	rule := mapping.ToDomainApprovalRule(*m)
	return &rule, nil
}

// ListActiveRules returns active rules in creation order. Rule selection
// walks this list and takes the first amount-range match, so the ordering
// here is part of the selection contract.
func (r *PgxRuleRepository) ListActiveRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM approval_rules
        WHERE company_id = $1 AND is_active = TRUE
        ORDER BY created_at ASC;
    `, ruleColumns)
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active approval rules: %w", err)
	}
	return collectRules(rows)
}

func (r *PgxRuleRepository) ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM approval_rules
        WHERE company_id = $1
        ORDER BY created_at ASC;
    `, ruleColumns)
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval rules: %w", err)
	}
	return collectRules(rows)
}

func (r *PgxRuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM approval_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete approval rule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("approval rule not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxRuleRepository) CountFlowsUsingRule(ctx context.Context, ruleID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM approval_flows WHERE rule_id = $1;`, ruleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flows using rule: %w", err)
	}
	return count, nil
}

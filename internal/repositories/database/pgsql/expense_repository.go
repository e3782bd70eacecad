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

const expenseColumns = `expense_id, company_id, submitter_id, title, description, amount, currency,
	converted_amount, category, expense_date, receipt_url, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.CompanyID,
		&m.SubmitterID,
		&m.Title,
		&m.Description,
		&m.Amount,
		&m.Currency,
		&m.ConvertedAmount,
		&m.Category,
		&m.ExpenseDate,
		&m.ReceiptURL,
		&m.Status,
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

func collectExpenses(rows pgx.Rows) ([]domain.Expense, error) {
	defer rows.Close()
	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		modelExpenses = append(modelExpenses, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return mapping.ToDomainExpenseSlice(modelExpenses), nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
        INSERT INTO expenses (expense_id, company_id, submitter_id, title, description, amount, currency,
            converted_amount, category, expense_date, receipt_url, status,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.CompanyID,
		m.SubmitterID,
		m.Title,
		m.Description,
		m.Amount,
		m.Currency,
		m.ConvertedAmount,
		m.Category,
		m.ExpenseDate,
		m.ReceiptURL,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE expense_id = $1;`, expenseColumns)
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	e := mapping.ToDomainExpense(*m)
	return &e, nil
}

func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, updatedBy string) error {
	query := `
        UPDATE expenses
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE expense_id = $4;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), time.Now(), updatedBy, expenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxExpenseRepository) ListCompanyExpenses(ctx context.Context, companyID string) ([]domain.Expense, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM expenses
        WHERE company_id = $1
        ORDER BY created_at DESC;
    `, expenseColumns)
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query company expenses: %w", err)
	}
	return collectExpenses(rows)
}

func (r *PgxExpenseRepository) ListExpensesBySubmitters(ctx context.Context, submitterIDs []string) ([]domain.Expense, error) {
	if len(submitterIDs) == 0 {
		return []domain.Expense{}, nil
	}
	query := fmt.Sprintf(`
        SELECT %s FROM expenses
        WHERE submitter_id = ANY($1)
        ORDER BY created_at DESC;
    `, expenseColumns)
	rows, err := r.Pool.Query(ctx, query, submitterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by submitters: %w", err)
	}
	return collectExpenses(rows)
}

// ListExpensesAwaitingApprover joins through flows to the approver's
// pending steps so the approval inbox needs a single query.
func (r *PgxExpenseRepository) ListExpensesAwaitingApprover(ctx context.Context, approverID string) ([]domain.Expense, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM expenses e
        WHERE EXISTS (
            SELECT 1
            FROM approval_flows f
            JOIN approval_steps s ON s.flow_id = f.flow_id
            WHERE f.expense_id = e.expense_id
              AND f.is_completed = FALSE
              AND s.approver_id = $1
              AND s.status = 'PENDING'
        )
        ORDER BY e.created_at DESC;
    `, expenseAliasColumns("e"))
	rows, err := r.Pool.Query(ctx, query, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses awaiting approver: %w", err)
	}
	return collectExpenses(rows)
}

// expenseAliasColumns qualifies expenseColumns with a table alias.
func expenseAliasColumns(alias string) string {
	return alias + ".expense_id, " + alias + ".company_id, " + alias + ".submitter_id, " +
		alias + ".title, " + alias + ".description, " + alias + ".amount, " + alias + ".currency, " +
		alias + ".converted_amount, " + alias + ".category, " + alias + ".expense_date, " +
		alias + ".receipt_url, " + alias + ".status, " +
		alias + ".created_at, " + alias + ".created_by, " + alias + ".last_updated_at, " + alias + ".last_updated_by"
}

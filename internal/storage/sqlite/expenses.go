package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "id, group_id, description, amount_cents, paid_by, split_mode, category, date, created_at, created_by"

// CreateExpense persists a new expense and its splits.
// Amounts are stored as integer cents.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.SplitMode == "" {
		expense.SplitMode = models.SplitCustom
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Description, ledger.Cents(expense.Amount),
		expense.PaidBy, string(expense.SplitMode), expense.Category, formatDate(expense.Date),
		expense.CreatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, person_id, amount_cents, position) VALUES (?, ?, ?, ?)",
			expense.ID, split.PersonID, ledger.Cents(split.Amount), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// DeleteExpense removes an expense by ID; its splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(result, "expense", expenseID)
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expenses []*models.Expense) error {
	for _, expense := range expenses {
		rows, err := s.db.QueryContext(ctx,
			"SELECT person_id, amount_cents FROM expense_splits WHERE expense_id = ? ORDER BY position",
			expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get expense splits: %w", err)
		}

		for rows.Next() {
			var split models.ExpenseSplit
			var cents int64
			if err := rows.Scan(&split.PersonID, &cents); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan expense split: %w", err)
			}
			split.Amount = ledger.FromCents(cents)
			expense.Splits = append(expense.Splits, split)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate expense splits: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var cents int64
	var mode, date string
	err := row.Scan(&expense.ID, &expense.GroupID, &expense.Description, &cents, &expense.PaidBy,
		&mode, &expense.Category, &date, &expense.CreatedAt, &expense.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	expense.Amount = ledger.FromCents(cents)
	expense.SplitMode = models.SplitMode(mode)
	if expense.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return expense, nil
}

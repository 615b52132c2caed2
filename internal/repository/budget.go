package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/smart-budgetter/backend/internal/models"
)

const defaultHistoryLimit = 5

type BudgetRepository struct {
	db *pgxpool.Pool
}

type BudgetItemInput struct {
	Name         string
	UserAmount   float64
	AIAmount     float64
	IsAutoFilled bool
}

// NewBudgetRepository создает репозиторий зарплатных бюджетов.
func NewBudgetRepository(db *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// CreateWithItems сохраняет бюджет вместе с позициями в одной транзакции.
// Saved budgets are immutable history: there is no update path, every save
// inserts a new row.
func (r *BudgetRepository) CreateWithItems(ctx context.Context, userID uuid.UUID, salaryAmount float64, frequency models.Frequency, reasoning *string, items []BudgetItemInput) (models.SalaryBudget, error) {
	var budget models.SalaryBudget

	if salaryAmount <= 0 || len(items) == 0 {
		return budget, ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return budget, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO salary_budgets (user_id, salary_amount, frequency, ai_reasoning)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, salary_amount, frequency, ai_reasoning, created_at`,
		userID, salaryAmount, frequency, reasoning,
	).Scan(&budget.ID, &budget.UserID, &budget.SalaryAmount, &budget.Frequency, &budget.AIReasoning, &budget.CreatedAt)
	if err != nil {
		return budget, err
	}

	for idx, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return budget, ErrInvalid
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO salary_budget_items (id, budget_id, item_name, user_amount, ai_amount, is_auto_filled, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), budget.ID, item.Name, item.UserAmount, item.AIAmount, item.IsAutoFilled, idx,
		)
		if err != nil {
			return budget, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return budget, err
	}

	return budget, nil
}

// ListByUser возвращает последние бюджеты пользователя, новые первыми.
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SalaryBudget, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, salary_amount, frequency, ai_reasoning, created_at
		 FROM salary_budgets
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]models.SalaryBudget, 0)
	for rows.Next() {
		var budget models.SalaryBudget
		err := rows.Scan(&budget.ID, &budget.UserID, &budget.SalaryAmount, &budget.Frequency, &budget.AIReasoning, &budget.CreatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}

	return budgets, rows.Err()
}

// GetByID возвращает бюджет пользователя вместе с позициями.
func (r *BudgetRepository) GetByID(ctx context.Context, userID, budgetID uuid.UUID) (models.SalaryBudget, []models.SalaryBudgetItem, error) {
	var budget models.SalaryBudget

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, salary_amount, frequency, ai_reasoning, created_at
		 FROM salary_budgets
		 WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	).Scan(&budget.ID, &budget.UserID, &budget.SalaryAmount, &budget.Frequency, &budget.AIReasoning, &budget.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return budget, nil, ErrNotFound
		}
		return budget, nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, budget_id, item_name, user_amount, ai_amount, is_auto_filled, sort_order, created_at
		 FROM salary_budget_items
		 WHERE budget_id = $1
		 ORDER BY sort_order ASC`,
		budget.ID,
	)
	if err != nil {
		return budget, nil, err
	}
	defer rows.Close()

	items := make([]models.SalaryBudgetItem, 0)
	for rows.Next() {
		var item models.SalaryBudgetItem
		err := rows.Scan(&item.ID, &item.BudgetID, &item.ItemName, &item.UserAmount, &item.AIAmount, &item.IsAutoFilled, &item.SortOrder, &item.CreatedAt)
		if err != nil {
			return budget, nil, err
		}
		items = append(items, item)
	}

	return budget, items, rows.Err()
}

package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

const movementColumns = `id, occurred_at, movement_type, value, balance, account_id, description`

func scanMovement(row interface{ Scan(...any) error }) (domain.Movement, error) {
	var movement domain.Movement
	err := row.Scan(
		&movement.ID,
		&movement.OccurredAt,
		&movement.MovementType,
		&movement.Value,
		&movement.Balance,
		&movement.AccountID,
		&movement.Description,
	)
	return movement, err
}

// CreateWithBalance appends the movement and updates the account balance in
// one transaction. The account row is locked first, so the funds check holds
// even against writers outside this process.
func (r *MovementRepository) CreateWithBalance(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	logger.Info("movement repository create", logger.Fields{
		"accountId":    movement.AccountID,
		"movementType": string(movement.MovementType),
		"value":        movement.Value.String(),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Movement{}, fmt.Errorf("begin movement tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const lockQuery = `
SELECT account_number, balance
FROM accounts
WHERE id = $1
FOR UPDATE`

	var accountNumber string
	var balance decimal.Decimal
	if err := tx.QueryRowContext(ctx, lockQuery, movement.AccountID).Scan(&accountNumber, &balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, commons.ErrRecordNotFound
		}
		return domain.Movement{}, fmt.Errorf("lock account for movement: %w", err)
	}

	if movement.MovementType.Debit() && balance.LessThan(movement.Value) {
		return domain.Movement{}, &commons.InsufficientFundsError{
			AccountNumber: accountNumber,
			Balance:       balance.String(),
			Requested:     movement.Value.String(),
		}
	}

	newBalance := balance.Add(movement.SignedEffect())

	const insertQuery = `
INSERT INTO movements (
	occurred_at,
	movement_type,
	value,
	balance,
	account_id,
	description
) VALUES (NOW(), $1, $2, $3, $4, $5)
RETURNING id, occurred_at`

	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		movement.MovementType,
		movement.Value,
		newBalance,
		movement.AccountID,
		movement.Description,
	).Scan(&movement.ID, &movement.OccurredAt); err != nil {
		return domain.Movement{}, fmt.Errorf("insert movement: %w", err)
	}

	const updateQuery = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, updateQuery, movement.AccountID, newBalance); err != nil {
		return domain.Movement{}, fmt.Errorf("update account balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Movement{}, fmt.Errorf("commit movement tx: %w", err)
	}

	movement.Balance = newBalance
	return movement, nil
}

func (r *MovementRepository) GetByID(ctx context.Context, id int64) (domain.Movement, error) {
	const query = `
SELECT ` + movementColumns + `
FROM movements
WHERE id = $1`

	movement, err := scanMovement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, commons.ErrRecordNotFound
		}
		logger.Error("movement repository get by id failed", err, logger.Fields{"movementId": id})
		return domain.Movement{}, fmt.Errorf("get movement by id: %w", err)
	}

	return movement, nil
}

func (r *MovementRepository) List(ctx context.Context, filter repo_interfaces.MovementFilter) ([]domain.Movement, error) {
	query := `
SELECT ` + movementColumns + `
FROM movements`

	var conditions []string
	var args []any
	addCondition := func(clause string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, clause+"$"+strconv.Itoa(len(args)))
	}

	if filter.AccountID != nil {
		addCondition("account_id = ", *filter.AccountID)
	}
	if filter.MovementType != nil {
		addCondition("movement_type = ", *filter.MovementType)
	}
	if filter.From != nil {
		addCondition("occurred_at >= ", *filter.From)
	}
	if filter.To != nil {
		addCondition("occurred_at < ", *filter.To)
	}

	for i, condition := range conditions {
		if i == 0 {
			query += "\nWHERE " + condition
		} else {
			query += "\n  AND " + condition
		}
	}
	query += "\nORDER BY occurred_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("movement repository list failed", err, nil)
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}

	return movements, nil
}

func (r *MovementRepository) ListByClientIDAndDateRange(ctx context.Context, clientID int64, from, to time.Time) ([]domain.AccountMovement, error) {
	const query = `
SELECT m.id, m.occurred_at, m.movement_type, m.value, m.balance, m.account_id, m.description,
       a.id, a.account_number, a.account_type, a.balance, a.client_id, a.active, a.created_at, a.updated_at
FROM movements m
JOIN accounts a ON a.id = m.account_id
WHERE a.client_id = $1
  AND m.occurred_at >= $2
  AND m.occurred_at < $3
ORDER BY m.occurred_at, m.id`

	rows, err := r.db.QueryContext(ctx, query, clientID, from, to)
	if err != nil {
		logger.Error("movement repository report query failed", err, logger.Fields{"clientId": clientID})
		return nil, fmt.Errorf("list movements for report: %w", err)
	}
	defer rows.Close()

	var out []domain.AccountMovement
	for rows.Next() {
		var item domain.AccountMovement
		if err := rows.Scan(
			&item.Movement.ID,
			&item.Movement.OccurredAt,
			&item.Movement.MovementType,
			&item.Movement.Value,
			&item.Movement.Balance,
			&item.Movement.AccountID,
			&item.Movement.Description,
			&item.Account.ID,
			&item.Account.AccountNumber,
			&item.Account.AccountType,
			&item.Account.Balance,
			&item.Account.ClientID,
			&item.Account.Active,
			&item.Account.CreatedAt,
			&item.Account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}

	return out, nil
}

func (r *MovementRepository) ExistsByAccountID(ctx context.Context, accountID int64) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM movements
	WHERE account_id = $1
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check movements for account: %w", err)
	}

	return exists, nil
}

func (r *MovementRepository) UpdateDescription(ctx context.Context, id int64, description string) (domain.Movement, error) {
	const query = `
UPDATE movements
SET description = $2
WHERE id = $1
RETURNING ` + movementColumns

	movement, err := scanMovement(r.db.QueryRowContext(ctx, query, id, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, commons.ErrRecordNotFound
		}
		logger.Error("movement repository update description failed", err, logger.Fields{"movementId": id})
		return domain.Movement{}, fmt.Errorf("update movement description: %w", err)
	}

	return movement, nil
}

// DeleteWithRollback deletes the movement and reverses its effect on the
// account balance. Restricted to the account's most recent movement so every
// remaining resulting-balance snapshot stays replayable.
func (r *MovementRepository) DeleteWithRollback(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	movement, err := scanMovement(tx.QueryRowContext(ctx, `
SELECT `+movementColumns+`
FROM movements
WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commons.ErrRecordNotFound
		}
		return fmt.Errorf("get movement for delete: %w", err)
	}

	const lockQuery = `
SELECT balance
FROM accounts
WHERE id = $1
FOR UPDATE`

	var balance decimal.Decimal
	if err := tx.QueryRowContext(ctx, lockQuery, movement.AccountID).Scan(&balance); err != nil {
		return fmt.Errorf("lock account for delete: %w", err)
	}

	var latestID int64
	if err := tx.QueryRowContext(ctx, `
SELECT MAX(id)
FROM movements
WHERE account_id = $1`, movement.AccountID).Scan(&latestID); err != nil {
		return fmt.Errorf("find latest movement: %w", err)
	}
	if latestID != movement.ID {
		return commons.ErrNotLatestMovement
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}

	rolledBack := balance.Sub(movement.SignedEffect())
	if _, err := tx.ExecContext(ctx, `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1`, movement.AccountID, rolledBack); err != nil {
		return fmt.Errorf("roll back account balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}

	logger.Info("movement repository deleted with balance rollback", logger.Fields{
		"movementId": id,
		"accountId":  movement.AccountID,
		"balance":    rolledBack.String(),
	})
	return nil
}

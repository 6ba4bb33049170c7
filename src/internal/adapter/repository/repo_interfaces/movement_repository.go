package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// MovementFilter narrows a movement listing. Nil fields match everything.
type MovementFilter struct {
	AccountID    *int64
	MovementType *domain.MovementType
	From         *time.Time
	To           *time.Time
}

type MovementRepository interface {
	// CreateWithBalance commits the movement and the updated account balance
	// in one transaction. The account row is locked for the duration, the
	// funds check is re-applied under that lock for debit types, and the
	// commit timestamp and resulting balance are stamped by the store. Either
	// both rows are durable or neither is.
	CreateWithBalance(ctx context.Context, movement domain.Movement) (domain.Movement, error)
	GetByID(ctx context.Context, id int64) (domain.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]domain.Movement, error)
	// ListByClientIDAndDateRange joins movements of all of the client's
	// accounts inside [from, to), ordered by commit timestamp ascending.
	ListByClientIDAndDateRange(ctx context.Context, clientID int64, from, to time.Time) ([]domain.AccountMovement, error)
	ExistsByAccountID(ctx context.Context, accountID int64) (bool, error)
	// UpdateDescription is the only permitted mutation of a committed
	// movement; financial fields are immutable once stored.
	UpdateDescription(ctx context.Context, id int64, description string) (domain.Movement, error)
	// DeleteWithRollback removes the movement and reverses its signed effect
	// on the account balance in one transaction. Only the account's most
	// recent movement may be deleted; older ones fail with
	// commons.ErrNotLatestMovement.
	DeleteWithRollback(ctx context.Context, id int64) error
}

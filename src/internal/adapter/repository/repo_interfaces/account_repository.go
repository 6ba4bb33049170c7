package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	GetAll(ctx context.Context) ([]domain.Account, error)
	GetByClientID(ctx context.Context, clientID int64) ([]domain.Account, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	ExistsByAccountNumberExcluding(ctx context.Context, accountNumber string, excludeID int64) (bool, error)
	Update(ctx context.Context, account domain.Account) (domain.Account, error)
	// UpdateBalance is the administrative override path. It bypasses movement
	// validation and must stay distinguishable from engine-driven changes in
	// the audit trail.
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

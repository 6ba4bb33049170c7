package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
)

// MovementRepository mirrors the postgres implementation's transactional
// contract: the movement append and the account balance update happen under
// one lock, with the funds check re-applied inside it.
type MovementRepository struct {
	mu        sync.Mutex
	accounts  *AccountRepository
	movements map[int64]domain.Movement
	nextID    int64
}

func NewMovementRepository(accounts *AccountRepository) *MovementRepository {
	return &MovementRepository{
		accounts:  accounts,
		movements: make(map[int64]domain.Movement),
		nextID:    1,
	}
}

func (r *MovementRepository) CreateWithBalance(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, err := r.accounts.GetByID(ctx, movement.AccountID)
	if err != nil {
		return domain.Movement{}, err
	}

	if movement.MovementType.Debit() && account.Balance.LessThan(movement.Value) {
		return domain.Movement{}, &commons.InsufficientFundsError{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance.String(),
			Requested:     movement.Value.String(),
		}
	}

	newBalance := account.Balance.Add(movement.SignedEffect())

	movement.ID = r.nextID
	r.nextID++
	movement.OccurredAt = time.Now()
	movement.Balance = newBalance
	r.movements[movement.ID] = movement
	r.accounts.setBalance(account.ID, newBalance)

	return movement, nil
}

func (r *MovementRepository) GetByID(_ context.Context, id int64) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	movement, ok := r.movements[id]
	if !ok {
		return domain.Movement{}, commons.ErrRecordNotFound
	}
	return movement, nil
}

func (r *MovementRepository) List(_ context.Context, filter repo_interfaces.MovementFilter) ([]domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Movement
	for _, movement := range r.movements {
		if filter.AccountID != nil && movement.AccountID != *filter.AccountID {
			continue
		}
		if filter.MovementType != nil && movement.MovementType != *filter.MovementType {
			continue
		}
		if filter.From != nil && movement.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !movement.OccurredAt.Before(*filter.To) {
			continue
		}
		out = append(out, movement)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MovementRepository) ListByClientIDAndDateRange(ctx context.Context, clientID int64, from, to time.Time) ([]domain.AccountMovement, error) {
	accounts, err := r.accounts.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Account, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.AccountMovement
	for _, movement := range r.movements {
		account, ok := byID[movement.AccountID]
		if !ok {
			continue
		}
		if movement.OccurredAt.Before(from) || !movement.OccurredAt.Before(to) {
			continue
		}
		out = append(out, domain.AccountMovement{Movement: movement, Account: account})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Movement.OccurredAt.Equal(out[j].Movement.OccurredAt) {
			return out[i].Movement.ID < out[j].Movement.ID
		}
		return out[i].Movement.OccurredAt.Before(out[j].Movement.OccurredAt)
	})
	return out, nil
}

func (r *MovementRepository) ExistsByAccountID(_ context.Context, accountID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, movement := range r.movements {
		if movement.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MovementRepository) UpdateDescription(_ context.Context, id int64, description string) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	movement, ok := r.movements[id]
	if !ok {
		return domain.Movement{}, commons.ErrRecordNotFound
	}

	movement.Description = description
	r.movements[id] = movement
	return movement, nil
}

func (r *MovementRepository) DeleteWithRollback(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	movement, ok := r.movements[id]
	if !ok {
		return commons.ErrRecordNotFound
	}

	for _, other := range r.movements {
		if other.AccountID == movement.AccountID && other.ID > movement.ID {
			return commons.ErrNotLatestMovement
		}
	}

	account, err := r.accounts.GetByID(ctx, movement.AccountID)
	if err != nil {
		return err
	}

	delete(r.movements, id)
	r.accounts.setBalance(account.ID, account.Balance.Sub(movement.SignedEffect()))
	return nil
}

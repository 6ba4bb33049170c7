package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository keeps accounts in memory with the same contract as the
// postgres implementation. Used by service tests.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[int64]domain.Account
	nextID   int64
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[int64]domain.Account), nextID: 1}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, commons.ErrDuplicateResource
		}
	}

	account.ID = r.nextID
	r.nextID++
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = account
	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id int64) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return account, nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *AccountRepository) GetAll(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Account, 0, len(r.accounts))
	for id := int64(1); id < r.nextID; id++ {
		if account, ok := r.accounts[id]; ok {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *AccountRepository) GetByClientID(_ context.Context, clientID int64) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Account
	for id := int64(1); id < r.nextID; id++ {
		if account, ok := r.accounts[id]; ok && account.ClientID == clientID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *AccountRepository) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) ExistsByAccountNumberExcluding(_ context.Context, accountNumber string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber && account.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) Update(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = account
	return account, nil
}

func (r *AccountRepository) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	account.Balance = balance
	account.UpdatedAt = time.Now()
	r.accounts[id] = account
	return account, nil
}

func (r *AccountRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return commons.ErrRecordNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *AccountRepository) setBalance(id int64, balance decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account, ok := r.accounts[id]; ok {
		account.Balance = balance
		account.UpdatedAt = time.Now()
		r.accounts[id] = account
	}
}

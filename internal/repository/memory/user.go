// Package memory holds in-memory implementations of the stores. They back
// the tests and DB-less runs, and honor the same atomicity contract as the
// Postgres stores.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ivankudrin/finapi/internal/model"
)

// TxRunner serializes whole operations behind one lock. There is nothing to
// roll back: services validate before mutating, and with the lock held no
// other operation can invalidate the check in between.
type TxRunner struct {
	mu sync.Mutex
}

func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

func (t *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.ErrDuplicateEmail
	}

	clone := *user
	r.users[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *r.users[id]
	return &clone, nil
}

func (r *UserRepository) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user.Balance += amount
	clone := *user
	return &clone, nil
}

// Withdraw re-checks the balance under the store lock so the sufficiency
// check and the mutation are one atomic unit.
func (r *UserRepository) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if user.Balance < amount {
		return nil, model.ErrInsufficientFunds
	}
	user.Balance -= amount
	clone := *user
	return &clone, nil
}

func (r *UserRepository) Transfer(ctx context.Context, providerID, receiverID uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider, ok := r.users[providerID]
	if !ok {
		return model.ErrUserNotFound
	}
	receiver, ok := r.users[receiverID]
	if !ok {
		return model.ErrUserNotFound
	}
	if provider.Balance < amount {
		return model.ErrInsufficientFunds
	}

	provider.Balance -= amount
	receiver.Balance += amount
	return nil
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ivankudrin/finapi/internal/model"
)

func newUser(email string, balance int64) *model.User {
	now := time.Now()
	return &model.User{
		ID:           uuid.New(),
		Name:         "User",
		Email:        email,
		PasswordHash: "hash",
		Balance:      balance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := newUser("user@example.com", 0)
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, newUser("dup@example.com", 0)))
	err := repo.Create(ctx, newUser("dup@example.com", 0))
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestUserRepositoryDepositWithdraw(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := newUser("user@example.com", 0)
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.Deposit(ctx, user.ID, 1000)
	require.NoError(t, err)
	require.Equal(t, int64(1000), updated.Balance)

	updated, err = repo.Withdraw(ctx, user.ID, 300)
	require.NoError(t, err)
	require.Equal(t, int64(700), updated.Balance)

	_, err = repo.Withdraw(ctx, user.ID, 701)
	require.ErrorIs(t, err, model.ErrInsufficientFunds)

	// the failed withdraw must not have touched the balance
	current, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(700), current.Balance)
}

func TestUserRepositoryTransfer(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	provider := newUser("provider@example.com", 1000)
	receiver := newUser("receiver@example.com", 250)
	require.NoError(t, repo.Create(ctx, provider))
	require.NoError(t, repo.Create(ctx, receiver))

	require.NoError(t, repo.Transfer(ctx, provider.ID, receiver.ID, 400))

	p, _ := repo.GetByID(ctx, provider.ID)
	r, _ := repo.GetByID(ctx, receiver.ID)
	require.Equal(t, int64(600), p.Balance)
	require.Equal(t, int64(650), r.Balance)

	require.ErrorIs(t, repo.Transfer(ctx, provider.ID, receiver.ID, 601), model.ErrInsufficientFunds)
	require.ErrorIs(t, repo.Transfer(ctx, uuid.New(), receiver.ID, 1), model.ErrUserNotFound)
}

func TestUserRepositoryConcurrentWithdrawsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := newUser("user@example.com", 1000)
	require.NoError(t, repo.Create(ctx, user))

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Withdraw(ctx, user.ID, 100); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// only ten 100-cent withdrawals fit into a 1000-cent balance
	require.Equal(t, 10, succeeded)

	current, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), current.Balance)
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := newUser("user@example.com", 100)
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.Balance = 99999

	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), again.Balance)
}

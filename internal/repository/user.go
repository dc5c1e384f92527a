package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ivankudrin/finapi/internal/model"
)

// UserRepository is the account store: users keyed by identifier, with the
// balance mutated only through the deposit/withdraw/transfer operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*model.User, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*model.User, error)
	Transfer(ctx context.Context, providerID, receiverID uuid.UUID, amount int64) error
}

type userRepository struct {
	db *Database
}

func NewUserRepository(db *Database) UserRepository {
	return &userRepository{db: db}
}

const pqUniqueViolation = "23505"

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.executor(ctx).ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Balance,
		user.CreatedAt,
		user.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return model.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *userRepository) getBy(ctx context.Context, where string, arg any) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, name, email, password_hash, balance, created_at, updated_at
              FROM users WHERE ` + where
	err := r.db.executor(ctx).QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*model.User, error) {
	query := `UPDATE users SET balance = balance + $1, updated_at = now()
              WHERE id = $2
              RETURNING id, name, email, password_hash, balance, created_at, updated_at`

	user := &model.User{}
	err := r.db.executor(ctx).QueryRowContext(ctx, query, amount, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}
	return user, nil
}

// Withdraw decrements the balance only when the account still has the funds.
// The check and the mutation are one statement, so two concurrent withdrawals
// cannot both read a stale balance and jointly overdraw.
func (r *userRepository) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*model.User, error) {
	query := `UPDATE users SET balance = balance - $1, updated_at = now()
              WHERE id = $2 AND balance >= $1
              RETURNING id, name, email, password_hash, balance, created_at, updated_at`

	user := &model.User{}
	err := r.db.executor(ctx).QueryRowContext(ctx, query, amount, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrInsufficientFunds
	}
	if err != nil {
		return nil, fmt.Errorf("failed to withdraw: %w", err)
	}
	return user, nil
}

// Transfer moves amount from the provider to the receiver. Both rows are
// locked first, always in ascending id order, so two opposite transfers
// cannot deadlock.
func (r *userRepository) Transfer(ctx context.Context, providerID, receiverID uuid.UUID, amount int64) error {
	ex := r.db.executor(ctx)

	lockQuery := `SELECT id FROM users WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`
	rows, err := ex.QueryContext(ctx, lockQuery, pq.Array([]uuid.UUID{providerID, receiverID}))
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	locked := 0
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to lock accounts: %w", err)
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	if locked != 2 {
		return model.ErrUserNotFound
	}

	res, err := ex.ExecContext(ctx,
		`UPDATE users SET balance = balance - $1, updated_at = now()
         WHERE id = $2 AND balance >= $1`, amount, providerID)
	if err != nil {
		return fmt.Errorf("failed to debit provider: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to debit provider: %w", err)
	}
	if affected == 0 {
		return model.ErrInsufficientFunds
	}

	if _, err := ex.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1, updated_at = now()
         WHERE id = $2`, amount, receiverID); err != nil {
		return fmt.Errorf("failed to credit receiver: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ivankudrin/finapi/internal/model"
)

// StatementRepository is the append-only statement store. Statements are
// never updated or deleted once created.
type StatementRepository interface {
	Create(ctx context.Context, statement *model.Statement) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Statement, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Statement, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type statementRepository struct {
	db *Database
}

func NewStatementRepository(db *Database) StatementRepository {
	return &statementRepository{db: db}
}

func (r *statementRepository) Create(ctx context.Context, statement *model.Statement) error {
	query := `INSERT INTO statements (id, user_id, sender_id, type, amount, description, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.executor(ctx).ExecContext(ctx, query,
		statement.ID,
		statement.UserID,
		statement.SenderID,
		statement.Type,
		statement.Amount,
		statement.Description,
		statement.CreatedAt,
		statement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create statement: %w", err)
	}
	return nil
}

func (r *statementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Statement, error) {
	statement := &model.Statement{}
	query := `SELECT id, user_id, sender_id, type, amount, description, created_at, updated_at
              FROM statements WHERE id = $1`

	var senderID sql.Null[uuid.UUID]
	err := r.db.executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&statement.ID,
		&statement.UserID,
		&senderID,
		&statement.Type,
		&statement.Amount,
		&statement.Description,
		&statement.CreatedAt,
		&statement.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}
	if senderID.Valid {
		statement.SenderID = &senderID.V
	}
	return statement, nil
}

func (r *statementRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Statement, error) {
	query := `SELECT id, user_id, sender_id, type, amount, description, created_at, updated_at
              FROM statements
              WHERE user_id = $1
              ORDER BY created_at ASC`

	rows, err := r.db.executor(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var statements []*model.Statement
	for rows.Next() {
		var statement model.Statement
		var senderID sql.Null[uuid.UUID]

		if err := rows.Scan(
			&statement.ID,
			&statement.UserID,
			&senderID,
			&statement.Type,
			&statement.Amount,
			&statement.Description,
			&statement.CreatedAt,
			&statement.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		if senderID.Valid {
			statement.SenderID = &senderID.V
		}

		statements = append(statements, &statement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return statements, nil
}

func (r *statementRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM statements WHERE id = $1)`
	if err := r.db.executor(ctx).QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check statement: %w", err)
	}
	return exists, nil
}

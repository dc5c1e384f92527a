package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ivankudrin/finapi/internal/model"
)

type StatementRepository struct {
	mu         sync.RWMutex
	statements map[uuid.UUID]*model.Statement
	// byUser keeps ids in creation order; the listing contract depends on it.
	byUser map[uuid.UUID][]uuid.UUID
}

func NewStatementRepository() *StatementRepository {
	return &StatementRepository{
		statements: make(map[uuid.UUID]*model.Statement),
		byUser:     make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *StatementRepository) Create(ctx context.Context, statement *model.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *statement
	r.statements[statement.ID] = &clone
	r.byUser[statement.UserID] = append(r.byUser[statement.UserID], statement.ID)
	return nil
}

func (r *StatementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statement, ok := r.statements[id]
	if !ok {
		return nil, nil
	}
	clone := *statement
	return &clone, nil
}

func (r *StatementRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	statements := make([]*model.Statement, 0, len(ids))
	for _, id := range ids {
		clone := *r.statements[id]
		statements = append(statements, &clone)
	}
	return statements, nil
}

func (r *StatementRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.statements[id]
	return ok, nil
}

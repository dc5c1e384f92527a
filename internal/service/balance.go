package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ivankudrin/finapi/internal/model"
	"github.com/ivankudrin/finapi/internal/repository"
)

type BalanceService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*model.UserBalance, error)
}

type balanceService struct {
	userRepo      repository.UserRepository
	statementRepo repository.StatementRepository
}

func NewBalanceService(
	userRepo repository.UserRepository,
	statementRepo repository.StatementRepository,
) BalanceService {
	return &balanceService{
		userRepo:      userRepo,
		statementRepo: statementRepo,
	}
}

func (s *balanceService) GetBalance(ctx context.Context, userID uuid.UUID) (*model.UserBalance, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	statements, err := s.statementRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statements: %w", err)
	}
	if statements == nil {
		statements = []*model.Statement{}
	}

	return &model.UserBalance{
		Balance:    user.Balance,
		Statements: statements,
	}, nil
}

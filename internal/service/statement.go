package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudrin/finapi/internal/model"
	"github.com/ivankudrin/finapi/internal/money"
	"github.com/ivankudrin/finapi/internal/repository"
)

// CreateStatementInput describes a deposit or withdraw request. Amount is the
// raw value as supplied by the caller and is encoded to minor units here.
type CreateStatementInput struct {
	UserID      uuid.UUID
	Type        model.OperationType
	Amount      string
	Description string
}

type TransferInput struct {
	ProviderID  uuid.UUID
	ReceiverID  uuid.UUID
	Amount      string
	Description string
}

type StatementService interface {
	Create(ctx context.Context, input CreateStatementInput) (*model.Statement, error)
	Transfer(ctx context.Context, input TransferInput) (*model.Statement, error)
	GetOperation(ctx context.Context, userID, statementID uuid.UUID) (*model.Statement, error)
}

type statementService struct {
	userRepo      repository.UserRepository
	statementRepo repository.StatementRepository
	tx            repository.TxRunner
}

func NewStatementService(
	userRepo repository.UserRepository,
	statementRepo repository.StatementRepository,
	tx repository.TxRunner,
) StatementService {
	return &statementService{
		userRepo:      userRepo,
		statementRepo: statementRepo,
		tx:            tx,
	}
}

// Create records a deposit or withdraw statement and applies the balance
// delta. All validation happens before any mutation; the statement insert and
// the balance change share one transaction, so either both commit or neither.
func (s *statementService) Create(ctx context.Context, input CreateStatementInput) (*model.Statement, error) {
	if input.Type != model.OperationDeposit && input.Type != model.OperationWithdraw {
		return nil, fmt.Errorf("operation %q: %w", input.Type, model.ErrInvalidValue)
	}

	amount, err := money.ToCents(input.Amount)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, model.ErrInvalidValue
	}

	var statement *model.Statement
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return model.ErrUserNotFound
		}

		if input.Type == model.OperationWithdraw && user.Balance < amount {
			return model.ErrInsufficientFunds
		}

		now := time.Now()
		statement = &model.Statement{
			ID:          uuid.New(),
			UserID:      user.ID,
			Type:        input.Type,
			Amount:      amount,
			Description: input.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.statementRepo.Create(ctx, statement); err != nil {
			return err
		}

		switch input.Type {
		case model.OperationDeposit:
			_, err = s.userRepo.Deposit(ctx, user.ID, amount)
		case model.OperationWithdraw:
			_, err = s.userRepo.Withdraw(ctx, user.ID, amount)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return statement, nil
}

// Transfer moves funds from the provider to the receiver and records a single
// transfer statement owned by the receiver, with the provider as sender.
func (s *statementService) Transfer(ctx context.Context, input TransferInput) (*model.Statement, error) {
	amount, err := money.ToCents(input.Amount)
	if err != nil {
		return nil, err
	}

	var statement *model.Statement
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		provider, err := s.userRepo.GetByID(ctx, input.ProviderID)
		if err != nil {
			return fmt.Errorf("failed to get provider: %w", err)
		}
		if provider == nil {
			return model.ErrUserNotFound
		}

		receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
		if err != nil {
			return fmt.Errorf("failed to get receiver: %w", err)
		}
		if receiver == nil {
			return model.ErrUserNotFound
		}

		if provider.Balance < amount {
			return model.ErrInsufficientFunds
		}
		if amount <= 0 {
			return model.ErrInvalidValue
		}

		now := time.Now()
		statement = &model.Statement{
			ID:          uuid.New(),
			UserID:      receiver.ID,
			SenderID:    &provider.ID,
			Type:        model.OperationTransfer,
			Amount:      amount,
			Description: input.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.statementRepo.Create(ctx, statement); err != nil {
			return err
		}

		return s.userRepo.Transfer(ctx, provider.ID, receiver.ID, amount)
	})
	if err != nil {
		return nil, err
	}

	return statement, nil
}

// GetOperation returns a single statement. A statement that exists but
// belongs to another user is reported as not found, not as forbidden.
func (s *statementService) GetOperation(ctx context.Context, userID, statementID uuid.UUID) (*model.Statement, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	exists, err := s.statementRepo.ExistsByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to check statement: %w", err)
	}
	if !exists {
		return nil, model.ErrStatementNotFound
	}

	statement, err := s.statementRepo.GetByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}
	if statement == nil || statement.UserID != userID {
		return nil, model.ErrStatementNotFound
	}

	return statement, nil
}

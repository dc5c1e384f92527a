package model

import (
	"time"

	"github.com/google/uuid"
)

// OperationType discriminates the three kinds of balance-affecting records.
type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
	OperationTransfer OperationType = "transfer"
)

func (t OperationType) Valid() bool {
	switch t {
	case OperationDeposit, OperationWithdraw, OperationTransfer:
		return true
	}
	return false
}

// Statement is an immutable record of a single balance-affecting operation.
// Amount is always positive; the sign is implied by Type. For transfers the
// statement belongs to the receiver and SenderID carries the provider.
type Statement struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	SenderID    *uuid.UUID    `json:"sender_id,omitempty"`
	Type        OperationType `json:"type"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Balance      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the externally visible view of a user. The credential never
// leaves the service, so it has no field here at all.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserBalance is the GetBalance response: current balance in minor units plus
// every statement of the user in creation order.
type UserBalance struct {
	Balance    int64        `json:"balance"`
	Statements []*Statement `json:"statements"`
}

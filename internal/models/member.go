package models

import (
	"time"

	"github.com/google/uuid"
)

// Member represents a registered account.
// Its ID is what group member lists and ledger records refer to.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Email is the member's email address (unique).
	// Used for login.
	Email string

	// DisplayName is the name shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the member's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewMember creates a member with a fresh ID and timestamps.
func NewMember(email, displayName, passwordHash string) *Member {
	now := time.Now().Unix()
	return &Member{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

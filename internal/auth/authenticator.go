package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator verifies who is recording expenses and settlements.
// Implementations own the credential format; the services only see members.
type Authenticator interface {
	// Register creates a member account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.Member, error)

	// Authenticate returns the member whose credentials match.
	Authenticate(ctx context.Context, email, credential string) (*models.Member, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error
}

package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator verifies who a caller is. The service layer only talks to
// this interface, so other credential types can be added later.
type Authenticator interface {
	// Register creates a new account. Emails are compared case-insensitively.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before anything is stored.
	ValidateCredential(credential string) error
}

package auth

import (
	"time"

	"github.com/google/uuid"
)

// ProviderEmail is the only registration method currently supported.
// The field is persisted so federated providers can be added later without
// a schema change.
const ProviderEmail = "email"

// User is a domain entity representing a registered account.
// Emails are case-insensitive: they are normalized to lower case at the
// store boundary, where their uniqueness is enforced.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         *string
	Provider     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

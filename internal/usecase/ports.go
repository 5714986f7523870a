package usecase

import (
	"context"
	"time"

	"github.com/kesuzuki/notably"
	"github.com/kesuzuki/notably/internal/domain"
)

// UserRepository defines persistence/lookup for users and their embedded
// notes. Save rewrites the whole record.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Save(ctx context.Context, user domain.User) error
}

// RevocationRepository is the logout blacklist. Record is idempotent.
type RevocationRepository interface {
	Record(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// PasswordHasher hashes and checks login passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, digest string) bool
}

// TokenIssuer mints bearer tokens for an identity.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

// EventPublisher pushes note events to the realtime feed.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event notably.Event) error
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kesuzuki/notably/internal/domain"
)

type AccountUsecase struct {
	users       UserRepository
	tokens      TokenIssuer
	hasher      PasswordHasher
	revocations RevocationRepository
}

func NewAccountUsecase(
	users UserRepository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	revocations RevocationRepository,
) *AccountUsecase {
	return &AccountUsecase{
		users:       users,
		tokens:      tokens,
		hasher:      hasher,
		revocations: revocations,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a user and returns a fresh token for it.
func (uc *AccountUsecase) Register(ctx context.Context, input RegisterInput) (string, error) {
	if input.Email == "" || input.Password == "" {
		return "", domain.ValidationError{Message: "email and password are required"}
	}

	_, err := uc.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return "", domain.ConflictError{Message: "Email is already registered."}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return "", err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
	}

	err = uc.users.Create(ctx, user)
	if err != nil {
		return "", err
	}

	return uc.tokens.Issue(user)
}

// Login checks credentials and returns a token plus the stored user.
// Unknown email and wrong password are reported identically.
func (uc *AccountUsecase) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, domain.ValidationError{Message: "Missing credentials"}
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if !uc.hasher.Compare(password, user.PasswordHash) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return "", domain.User{}, err
	}

	return token, user, nil
}

// Logout blacklists the given token until it would have expired anyway.
func (uc *AccountUsecase) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Expired tokens fail verification on their own, but record them
		// briefly so logout stays unconditional.
		ttl = time.Minute
	}
	return uc.revocations.Record(ctx, token, ttl)
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kesuzuki/notably/internal/domain"
	"github.com/kesuzuki/notably/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	record := toModel(user)

	err := r.db.WithContext(ctx).Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Message: "Email is already registered."}
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}

	return toDomain(record), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}

	return toDomain(record), nil
}

// Save rewrites the whole user record including the embedded note list.
// Concurrent mutations on the same user race here; last write wins.
func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	record := toModel(user)
	return r.db.WithContext(ctx).Save(&record).Error
}

func toModel(user domain.User) models.User {
	notes := make([]models.Note, 0, len(user.Notes))
	for _, n := range user.Notes {
		notes = append(notes, models.Note{
			ID:      n.ID,
			Title:   n.Title,
			Content: n.Content,
		})
	}

	return models.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Notes:     notes,
	}
}

func toDomain(record models.User) domain.User {
	notes := make([]domain.Note, 0, len(record.Notes))
	for _, n := range record.Notes {
		notes = append(notes, domain.Note{
			ID:      n.ID,
			Title:   n.Title,
			Content: n.Content,
		})
	}

	return domain.User{
		ID:           record.ID,
		FirstName:    record.FirstName,
		LastName:     record.LastName,
		Email:        record.Email,
		PasswordHash: record.Password,
		Notes:        notes,
	}
}

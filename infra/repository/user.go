package repository

import (
	"context"
	"errors"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/budgetd/budgetd/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m User
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m User
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	m := User{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		PasswordHash:  user.PasswordHash,
		EmailVerified: user.EmailVerified,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, update repository.UserUpdate) (bool, error) {
	columns := make(map[string]any)
	if update.Email != nil {
		columns["email"] = *update.Email
	}
	if update.Name != nil {
		columns["name"] = *update.Name
	}
	if update.PasswordHash != nil {
		columns["password_hash"] = *update.PasswordHash
	}
	if len(columns) == 0 {
		u, err := r.Get(ctx, id)
		return u != nil, err
	}
	res := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		UpdateColumns(columns)
	return res.RowsAffected > 0, res.Error
}

func (r *userRepository) SetEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("email_verified", verified).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&User{}).Error
}

type validationRepository struct {
	db *gorm.DB
}

func (r *validationRepository) Create(ctx context.Context, v *domain.Validation) error {
	m := Validation{
		ID:         v.ID,
		Token:      v.Token,
		Context:    v.Context,
		ValidUntil: v.ValidUntil,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *validationRepository) GetByToken(ctx context.Context, token string) (*domain.Validation, error) {
	var m Validation
	err := r.db.WithContext(ctx).First(&m, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainValidation(&m), nil
}

func (r *validationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Validation{}).Error
}

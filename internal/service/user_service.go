package service

import (
	"context"
	"errors"

	"github.com/psds-microservice/order-service/internal/errs"
	"github.com/psds-microservice/order-service/internal/model"
	"gorm.io/gorm"
)

// UserServicer — интерфейс для auth-хендлера.
type UserServicer interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, u *model.User) error {
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

package jewelers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db"
	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

// CreateJewelerInput carries the fields accepted when registering a vendor.
type CreateJewelerInput struct {
	Name     string  `json:"name" validate:"required,max=200"`
	ShopName string  `json:"shop_name" validate:"required,max=200"`
	Bio      *string `json:"bio,omitempty"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email    string  `json:"email" validate:"required,email"`
}

// UpdateJewelerInput carries partial updates to a vendor profile.
type UpdateJewelerInput struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	ShopName *string  `json:"shop_name,omitempty" validate:"omitempty,max=200"`
	Bio      *string  `json:"bio,omitempty"`
	Address  *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone    *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Rating   *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// Service exposes jeweler profile management.
type Service interface {
	Create(ctx context.Context, input CreateJewelerInput) (*models.Jeweler, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Jeweler, error)
	List(ctx context.Context, params pagination.Params) ([]models.Jeweler, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateJewelerInput) (*models.Jeweler, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a jeweler service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("jewelers repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateJewelerInput) (*models.Jeweler, error) {
	jeweler := &models.Jeweler{
		Name:     strings.TrimSpace(input.Name),
		ShopName: strings.TrimSpace(input.ShopName),
		Bio:      input.Bio,
		Address:  input.Address,
		Phone:    input.Phone,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
	}

	created, err := s.repo.Create(ctx, jeweler)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "jeweler email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create jeweler")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Jeweler, error) {
	jeweler, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "jeweler not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load jeweler")
	}
	return jeweler, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Jeweler, error) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jewelers")
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateJewelerInput) (*models.Jeweler, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.ShopName != nil {
		updates["shop_name"] = strings.TrimSpace(*input.ShopName)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update jeweler")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete jeweler")
	}
	return nil
}

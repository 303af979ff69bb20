package paymentmethods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
)

// CreatePaymentMethodInput carries the fields for a new transfer channel.
type CreatePaymentMethodInput struct {
	MethodName  string  `json:"method_name" validate:"required,max=100"`
	QRCodeImage *string `json:"qr_code_image,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdatePaymentMethodInput carries partial updates to a transfer channel.
type UpdatePaymentMethodInput struct {
	MethodName  *string `json:"method_name,omitempty" validate:"omitempty,max=100"`
	QRCodeImage *string `json:"qr_code_image,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Service manages the admin-owned payment method reference data.
type Service interface {
	Create(ctx context.Context, input CreatePaymentMethodInput) (*models.PaymentMethod, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	List(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePaymentMethodInput) (*models.PaymentMethod, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a payment methods service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment methods repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreatePaymentMethodInput) (*models.PaymentMethod, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	method, err := s.repo.Create(ctx, &models.PaymentMethod{
		MethodName:  strings.TrimSpace(input.MethodName),
		QRCodeImage: input.QRCodeImage,
		IsActive:    active,
		Notes:       input.Notes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment method")
	}
	return method, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}
	return method, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	methods, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	return methods, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePaymentMethodInput) (*models.PaymentMethod, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.MethodName != nil {
		updates["method_name"] = strings.TrimSpace(*input.MethodName)
	}
	if input.QRCodeImage != nil {
		updates["qr_code_image"] = *input.QRCodeImage
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment method")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment method")
	}
	return nil
}

package designs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/genai"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
	"github.com/lumine-jewelry/lumine-backend/pkg/uploads"
)

// CreateRequestInput carries a new commission inquiry.
type CreateRequestInput struct {
	JewelerID         *uuid.UUID       `json:"jeweler_id,omitempty"`
	GeneratedDesignID *uuid.UUID       `json:"generated_design_id,omitempty"`
	Description       *string          `json:"description,omitempty"`
	AttachmentURL     *string          `json:"attachment_url,omitempty"`
	EstimatedBudget   *decimal.Decimal `json:"estimated_budget,omitempty"`
}

// ReviewRequestInput moves a request through its review lifecycle.
type ReviewRequestInput struct {
	RequestID  uuid.UUID
	Status     enums.DesignRequestStatus
	PriceOffer *decimal.Decimal
	JewelerID  *uuid.UUID
}

type imageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*genai.GeneratedImage, error)
}

type jewelerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Jeweler, error)
}

// Service exposes the design studio and request lifecycle.
type Service interface {
	GenerateDesign(ctx context.Context, userID *uuid.UUID, opts DesignOptions) (*models.GeneratedDesign, error)
	GetDesign(ctx context.Context, id uuid.UUID) (*models.GeneratedDesign, error)
	ListDesigns(ctx context.Context, userID uuid.UUID) ([]models.GeneratedDesign, error)

	CreateRequest(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*models.DesignRequest, error)
	ListRequests(ctx context.Context, userID uuid.UUID) ([]models.DesignRequest, error)
	ListAllRequests(ctx context.Context, params pagination.Params, status *enums.DesignRequestStatus) ([]models.DesignRequest, error)
	ReviewRequest(ctx context.Context, input ReviewRequestInput) (*models.DesignRequest, error)
}

type service struct {
	repo      *Repository
	generator imageGenerator
	store     uploads.Store
	jewelers  jewelerFinder
}

// ServiceParams bundles the dependencies required to build a designs service.
type ServiceParams struct {
	Repo      *Repository
	Generator imageGenerator
	Store     uploads.Store
	Jewelers  jewelerFinder
}

// NewService constructs a designs service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("designs repository is required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("image generator is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("image store is required")
	}
	if params.Jewelers == nil {
		return nil, fmt.Errorf("jewelers repository is required")
	}
	return &service{
		repo:      params.Repo,
		generator: params.Generator,
		store:     params.Store,
		jewelers:  params.Jewelers,
	}, nil
}

// GenerateDesign calls the model outside any transaction and only records a
// row once the image bytes are safely on disk. A failed generation leaves no
// trace.
func (s *service) GenerateDesign(ctx context.Context, userID *uuid.UUID, opts DesignOptions) (*models.GeneratedDesign, error) {
	prompt := BuildPrompt(opts)

	image, err := s.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}

	filename := uuid.NewString() + ".png"
	path, err := s.store.Save(filename, image.Data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store generated image")
	}

	selected, err := json.Marshal(opts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode design options")
	}

	design, err := s.repo.CreateDesign(ctx, &models.GeneratedDesign{
		UserID:          userID,
		SelectedOptions: selected,
		ImagePath:       path,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create generated design")
	}
	return design, nil
}

func (s *service) GetDesign(ctx context.Context, id uuid.UUID) (*models.GeneratedDesign, error) {
	design, err := s.repo.FindDesignByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design")
	}
	return design, nil
}

func (s *service) ListDesigns(ctx context.Context, userID uuid.UUID) ([]models.GeneratedDesign, error) {
	designs, err := s.repo.ListDesignsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list designs")
	}
	return designs, nil
}

// CreateRequest opens a commission inquiry. A referenced generated design
// must belong to the requester.
func (s *service) CreateRequest(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*models.DesignRequest, error) {
	if input.EstimatedBudget != nil && input.EstimatedBudget.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated budget cannot be negative")
	}

	if input.JewelerID != nil {
		if _, err := s.jewelers.FindByID(ctx, *input.JewelerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "jeweler does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load jeweler")
		}
	}

	if input.GeneratedDesignID != nil {
		design, err := s.GetDesign(ctx, *input.GeneratedDesignID)
		if err != nil {
			return nil, err
		}
		if design.UserID == nil || *design.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "design does not belong to requester")
		}
	}

	request, err := s.repo.CreateRequest(ctx, &models.DesignRequest{
		UserID:            userID,
		JewelerID:         input.JewelerID,
		GeneratedDesignID: input.GeneratedDesignID,
		Description:       input.Description,
		AttachmentURL:     input.AttachmentURL,
		EstimatedBudget:   input.EstimatedBudget,
		Status:            enums.DesignRequestStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create design request")
	}
	return request, nil
}

func (s *service) ListRequests(ctx context.Context, userID uuid.UUID) ([]models.DesignRequest, error) {
	requests, err := s.repo.ListRequestsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list design requests")
	}
	return requests, nil
}

func (s *service) ListAllRequests(ctx context.Context, params pagination.Params, status *enums.DesignRequestStatus) ([]models.DesignRequest, error) {
	requests, err := s.repo.ListRequests(ctx, params, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list design requests")
	}
	return requests, nil
}

// ReviewRequest advances the request lifecycle. Quoting requires a price
// offer; assigning a jeweler is allowed while reviewing.
func (s *service) ReviewRequest(ctx context.Context, input ReviewRequestInput) (*models.DesignRequest, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid design request status")
	}

	request, err := s.repo.FindRequestByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design request")
	}

	if request.Status != input.Status && !request.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move design request from %s to %s", request.Status, input.Status))
	}

	updates := map[string]any{"status": input.Status}

	if input.Status == enums.DesignRequestStatusQuoted {
		if input.PriceOffer == nil || input.PriceOffer.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote requires a non-negative price offer")
		}
		updates["jeweler_price_offer"] = *input.PriceOffer
	}

	if input.JewelerID != nil {
		if _, jerr := s.jewelers.FindByID(ctx, *input.JewelerID); jerr != nil {
			if errors.Is(jerr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "jeweler does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, jerr, "load jeweler")
		}
		updates["jeweler_id"] = *input.JewelerID
	}

	if err := s.repo.UpdateRequest(ctx, request.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update design request")
	}
	return s.repo.FindRequestByID(ctx, request.ID)
}

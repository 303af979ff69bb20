package designs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/enums"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

// Repository exposes persistence for generated designs and design requests.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a designs repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateDesign inserts a generated design row.
func (r *Repository) CreateDesign(ctx context.Context, design *models.GeneratedDesign) (*models.GeneratedDesign, error) {
	if err := r.db.WithContext(ctx).Create(design).Error; err != nil {
		return nil, err
	}
	return design, nil
}

// FindDesignByID loads one generated design.
func (r *Repository) FindDesignByID(ctx context.Context, id uuid.UUID) (*models.GeneratedDesign, error) {
	var design models.GeneratedDesign
	if err := r.db.WithContext(ctx).First(&design, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

// ListDesignsByUser returns the user's generated designs, newest first.
func (r *Repository) ListDesignsByUser(ctx context.Context, userID uuid.UUID) ([]models.GeneratedDesign, error) {
	var designs []models.GeneratedDesign
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&designs).Error
	if err != nil {
		return nil, err
	}
	return designs, nil
}

// CreateRequest inserts a design request row.
func (r *Repository) CreateRequest(ctx context.Context, request *models.DesignRequest) (*models.DesignRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindRequestByID loads one design request with its relations.
func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.DesignRequest, error) {
	var request models.DesignRequest
	err := r.db.WithContext(ctx).
		Preload("Jeweler").
		Preload("GeneratedDesign").
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListRequestsByUser returns the user's design requests, newest first.
func (r *Repository) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.DesignRequest, error) {
	var requests []models.DesignRequest
	err := r.db.WithContext(ctx).
		Preload("Jeweler").
		Preload("GeneratedDesign").
		Where("user_id = ?", userID).
		Order("request_date DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListRequests returns all design requests for the back office.
func (r *Repository) ListRequests(ctx context.Context, params pagination.Params, status *enums.DesignRequestStatus) ([]models.DesignRequest, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.DesignRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var requests []models.DesignRequest
	err := query.
		Preload("Jeweler").
		Preload("GeneratedDesign").
		Order("request_date DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateRequest applies column updates to the design request row.
func (r *Repository) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.DesignRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

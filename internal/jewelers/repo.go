package jewelers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

// Repository exposes jeweler persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a jewelers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new jeweler profile.
func (r *Repository) Create(ctx context.Context, jeweler *models.Jeweler) (*models.Jeweler, error) {
	if err := r.db.WithContext(ctx).Create(jeweler).Error; err != nil {
		return nil, err
	}
	return jeweler, nil
}

// FindByID loads a jeweler by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Jeweler, error) {
	var jeweler models.Jeweler
	if err := r.db.WithContext(ctx).First(&jeweler, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &jeweler, nil
}

// FindByEmail loads a jeweler by contact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Jeweler, error) {
	var jeweler models.Jeweler
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&jeweler).Error; err != nil {
		return nil, err
	}
	return &jeweler, nil
}

// List returns a page of jewelers ordered by creation time.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Jeweler, error) {
	params = params.Normalize()
	var result []models.Jeweler
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies column updates to the jeweler row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Jeweler{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the jeweler row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Jeweler{}, "id = ?", id).Error
}

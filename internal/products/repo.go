package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a product together with its category links.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product with its gallery and categories.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Categories").
		Preload("Jeweler").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns the filtered catalog page plus the total matching count.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Product{})
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []models.Product
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Categories").
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.JewelerID != nil {
		query = query.Where("jeweler_id = ?", *filters.JewelerID)
	}
	if filters.CategoryID != nil {
		query = query.Where(
			"id IN (SELECT product_id FROM product_categories WHERE category_id = ?)",
			*filters.CategoryID,
		)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Material != nil && *filters.Material != "" {
		query = query.Where("LOWER(material) = ?", strings.ToLower(*filters.Material))
	}
	if filters.Search != nil && *filters.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(*filters.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filters.InStock {
		query = query.Where("stock_quantity > 0")
	}
	return query
}

// Update applies column updates to the product row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReplaceCategories rewires the product's category links.
func (r *Repository) ReplaceCategories(ctx context.Context, product *models.Product, categories []models.Category) error {
	return r.db.WithContext(ctx).Model(product).Association("Categories").Replace(categories)
}

// Delete removes the product row; gallery rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CountAll returns the total number of catalog listings.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// AddImage appends a gallery entry.
func (r *Repository) AddImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// DeleteImage removes one gallery entry belonging to the product.
func (r *Repository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&models.ProductImage{}).Error
}

// CreateCategory inserts a catalog grouping.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindCategoryByID loads one category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoriesByIDs loads the categories matching the provided IDs.
func (r *Repository) FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListCategories returns all root categories with one level of subcategories.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Preload("Subcategories").
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes a catalog grouping.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

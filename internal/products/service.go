package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

type jewelerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Jeweler, error)
}

// ProductPage is one listing page plus the total matching count.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// Service exposes catalog management and browsing.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductPage, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddImage(ctx context.Context, productID uuid.UUID, imagePath string, displayOrder int) (*models.ProductImage, error)
	RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	jewelers jewelerFinder
}

// NewService constructs a catalog service.
func NewService(repo *Repository, jewelers jewelerFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if jewelers == nil {
		return nil, fmt.Errorf("jewelers repository is required")
	}
	return &service{repo: repo, jewelers: jewelers}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}

	if _, err := s.jewelers.FindByID(ctx, input.JewelerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "jeweler does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load jeweler")
	}

	categories, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		JewelerID:     input.JewelerID,
		Name:          strings.TrimSpace(input.Name),
		Material:      input.Material,
		Karat:         input.Karat,
		Weight:        input.Weight,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Description:   input.Description,
		Tags:          pq.StringArray(input.Tags),
		ImagePath:     input.ImagePath,
		Categories:    categories,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductPage, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price")
	}

	result, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ProductPage{Products: result, Total: total}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Material != nil {
		updates["material"] = *input.Material
	}
	if input.Karat != nil {
		updates["karat"] = *input.Karat
	}
	if input.Weight != nil {
		updates["weight"] = *input.Weight
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if input.ImagePath != nil {
		updates["image_path"] = *input.ImagePath
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	if input.CategoryIDs != nil {
		categories, cerr := s.resolveCategories(ctx, input.CategoryIDs)
		if cerr != nil {
			return nil, cerr
		}
		if err := s.repo.ReplaceCategories(ctx, product, categories); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product categories")
		}
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) AddImage(ctx context.Context, productID uuid.UUID, imagePath string, displayOrder int) (*models.ProductImage, error) {
	if strings.TrimSpace(imagePath) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image path is required")
	}
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	image, err := s.repo.AddImage(ctx, &models.ProductImage{
		ProductID:    productID,
		ImagePath:    imagePath,
		DisplayOrder: displayOrder,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add product image")
	}
	return image, nil
}

func (s *service) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if _, err := s.Get(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, productID, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product image")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.ParentID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent category")
		}
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{
		Name:     strings.TrimSpace(input.Name),
		ParentID: input.ParentID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.repo.FindCategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
	}
	if len(categories) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more categories do not exist")
	}
	return categories, nil
}

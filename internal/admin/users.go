package admin

import (
	"context"
	"fmt"

	"github.com/lumine-jewelry/lumine-backend/internal/users"
	"github.com/lumine-jewelry/lumine-backend/pkg/db/models"
	pkgerrors "github.com/lumine-jewelry/lumine-backend/pkg/errors"
	"github.com/lumine-jewelry/lumine-backend/pkg/pagination"
)

type userLister interface {
	ListAll(ctx context.Context, params pagination.Params) ([]models.User, error)
	CountAll(ctx context.Context) (int64, error)
}

// UserPage is one page of the back-office account directory.
type UserPage struct {
	Items []users.UserResponse `json:"items"`
	Total int64                `json:"total"`
}

// UserDirectory serves the back-office account listing.
type UserDirectory struct {
	users userLister
}

// NewUserDirectory constructs the account directory service.
func NewUserDirectory(repo userLister) (*UserDirectory, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &UserDirectory{users: repo}, nil
}

// List pages through accounts without exposing credential material.
func (d *UserDirectory) List(ctx context.Context, params pagination.Params) (*UserPage, error) {
	total, err := d.users.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}

	list, err := d.users.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	items := make([]users.UserResponse, 0, len(list))
	for i := range list {
		items = append(items, users.FromModel(&list[i]))
	}
	return &UserPage{Items: items, Total: total}, nil
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/lumine-jewelry/lumine-backend/api/responses"
	"github.com/lumine-jewelry/lumine-backend/api/validators"
	"github.com/lumine-jewelry/lumine-backend/internal/products"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
)

// ListProducts serves the public catalog with optional filters.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters products.ListFilters
		if filters.JewelerID, err = validators.ParseQueryUUID(r, "jeweler_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.CategoryID, err = validators.ParseQueryUUID(r, "category_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.MinPrice, err = validators.ParseQueryDecimal(r, "min_price"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.MaxPrice, err = validators.ParseQueryDecimal(r, "max_price"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Material = validators.ParseQueryString(r, "material")
		filters.Search = validators.ParseQueryString(r, "search")
		filters.InStock = strings.EqualFold(r.URL.Query().Get("in_stock"), "true")

		page, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// GetProduct serves a single catalog entry with images and categories.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListCategories serves the category tree, roots first.
func ListCategories(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

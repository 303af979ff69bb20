package controllers

import (
	"net/http"

	"github.com/lumine-jewelry/lumine-backend/api/responses"
	"github.com/lumine-jewelry/lumine-backend/api/validators"
	"github.com/lumine-jewelry/lumine-backend/internal/jewelers"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
)

// ListJewelers serves the public vendor directory.
func ListJewelers(svc jewelers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// GetJeweler serves a single vendor profile.
func GetJeweler(svc jewelers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "jewelerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jeweler, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, jeweler)
	}
}

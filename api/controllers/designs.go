package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lumine-jewelry/lumine-backend/api/middleware"
	"github.com/lumine-jewelry/lumine-backend/api/responses"
	"github.com/lumine-jewelry/lumine-backend/api/validators"
	"github.com/lumine-jewelry/lumine-backend/internal/designs"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
)

// GenerateDesign runs the design studio. Works for anonymous visitors; a
// logged-in caller gets the design attached to their account.
func GenerateDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload designs.DesignOptions
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				userID = &parsed
			}
		}

		design, err := svc.GenerateDesign(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, design)
	}
}

// ListMyDesigns serves the caller's generated designs, newest first.
func ListMyDesigns(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListDesigns(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// GetDesign serves a single generated design.
func GetDesign(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "designID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		design, err := svc.GetDesign(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, design)
	}
}

// CreateDesignRequest opens a commission inquiry, optionally referencing a
// generated design the caller owns.
func CreateDesignRequest(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload designs.CreateRequestInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.CreateRequest(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// ListMyDesignRequests serves the caller's commission inquiries.
func ListMyDesignRequests(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListRequests(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

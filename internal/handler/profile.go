package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/service"
)

// ProfileHandler handles HTTP requests for saved generator profiles.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// HandleListProfiles handles GET /api/v1/profiles requests.
func (h *ProfileHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	profiles, err := h.service.ListProfiles(r.Context(), userID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleCreateProfile handles POST /api/v1/profiles requests.
func (h *ProfileHandler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.CreateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetProfile handles GET /api/v1/profiles/{profile_id} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.target(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetProfile(r.Context(), userID, profileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateProfile handles PUT /api/v1/profiles/{profile_id} requests.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.target(w, r)
	if !ok {
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), userID, profileID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteProfile handles DELETE /api/v1/profiles/{profile_id} requests.
func (h *ProfileHandler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProfile(r.Context(), userID, profileID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerateFromProfile handles POST /api/v1/profiles/{profile_id}/generate requests.
func (h *ProfileHandler) HandleGenerateFromProfile(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := h.target(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GenerateFromProfile(r.Context(), userID, profileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// target resolves the authenticated user and the profile_id URL parameter.
func (h *ProfileHandler) target(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return 0, "", false
	}

	id, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid profile id"))
		return 0, "", false
	}

	return userID, id.String(), true
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrProfileNameTaken):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	default:
		internalError(w, r, err)
	}
}

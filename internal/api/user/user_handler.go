package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmarques/go-rest-starter/internal/api"
)

type UserHandler struct {
	service UserService
	logger  *slog.Logger
}

func NewUserHandler(service UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// UpdateUserRequest is the JSON body for partial user updates.
type UpdateUserRequest struct {
	Email           *string `json:"email,omitempty"`
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Role            *string `json:"role,omitempty"`
	IsEmailVerified *bool   `json:"isEmailVerified,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
	ProfilePicture  *string `json:"profilePicture,omitempty"`
}

// GetMe handles GET /users/me for the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, u)
}

// List handles GET /users (admin only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []User{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// Get handles GET /users/{userID} (admin only).
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUserID(w, r)
	if !ok {
		return
	}
	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, u)
}

// Update handles PUT /users/{userID} (admin only).
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Update(r.Context(), id, UpdateUserParams{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            req.Role,
		IsEmailVerified: req.IsEmailVerified,
		IsActive:        req.IsActive,
		ProfilePicture:  req.ProfilePicture,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, u)
}

// Delete handles DELETE /users/{userID} (admin only).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUserID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *UserHandler) parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := api.StatusFromError(err)
	message := "User not found"
	switch {
	case errors.Is(err, api.ErrConflict):
		message = "User with this email already exists"
	case errors.Is(err, api.ErrBadRequest):
		message = err.Error()
	case status == http.StatusInternalServerError:
		h.logger.ErrorContext(r.Context(), "User operation failed", slog.Any("error", err))
		message = "Internal Server Error"
	}
	api.ErrorResponse(w, r, status, message)
}

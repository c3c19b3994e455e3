package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rmarques/go-rest-starter/internal/api"
)

type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "registration failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, session)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "login failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, session)
}

// writeServiceError maps service failures to statuses without leaking
// internal detail. Invalid credentials always read the same regardless of
// the underlying cause.
func (h *AuthHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	status := api.StatusFromError(err)
	message := "Invalid credentials"
	switch {
	case errors.Is(err, api.ErrConflict):
		message = "User with this email already exists"
	case errors.Is(err, api.ErrBadRequest):
		message = err.Error()
	case status == http.StatusInternalServerError:
		h.logger.ErrorContext(r.Context(), logMsg, slog.Any("error", err))
		message = "Internal Server Error"
	}
	api.ErrorResponse(w, r, status, message)
}

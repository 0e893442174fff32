package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jpmelanson/turnbase/internal/api/apierr"
	"github.com/jpmelanson/turnbase/internal/api/middleware"
	"github.com/jpmelanson/turnbase/internal/api/request"
	"github.com/jpmelanson/turnbase/internal/api/response"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/services/auth"
)

// AuthHandler handles registration, login and identity lookups
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	credential, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponse{Token: credential})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	credential, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{Token: credential})
}

// Me handles GET /api/v1/auth/me. Anonymous callers get a null body,
// never an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.JSON(w, http.StatusOK, nil)
		return
	}

	user, err := h.authService.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Credential outlived its account
			response.JSON(w, http.StatusOK, nil)
			return
		}
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

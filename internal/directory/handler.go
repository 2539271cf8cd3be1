package directory

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modern-studios/accounts/internal/platform/httpx"
)

// Handler manages the admin user-directory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers directory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/email", h.getUserByEmail)
	r.Put("/update", h.updateUser)
}

type updateRequest struct {
	FirstName *string    `json:"firstName" validate:"omitempty,min=2,max=100"`
	LastName  *string    `json:"lastName" validate:"omitempty,min=2,max=100"`
	Email     *string    `json:"email"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	httpx.JSON(w, http.StatusOK, profiles)
}

func (h *Handler) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	user, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		detail := err.Error()
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s is invalid (%s)", fieldErr.Field(), fieldErr.Tag()))
			}
			detail = strings.Join(parts, "; ")
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	patch := &Patch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		CreatedAt: req.CreatedAt,
	}
	profile, err := h.service.Update(r.Context(), email, patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

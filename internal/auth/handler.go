package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modern-studios/accounts/internal/platform/httpx"
	"github.com/modern-studios/accounts/jobs"
)

// TokenIssuer mints a bearer token for an authenticated identity.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	issuer   TokenIssuer
	mail     *jobs.Client
	validate *validator.Validate
}

// NewHandler constructs a Handler instance. mail may be nil.
func NewHandler(logger *slog.Logger, service *Service, issuer TokenIssuer, mail *jobs.Client) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		issuer:   issuer,
		mail:     mail,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/password/reset", h.handleResetPassword)
	r.Post("/logout", h.handleLogout)
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=2,max=25"`
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	LastName  string `json:"lastName" validate:"required,min=2,max=100"`
}

type registerResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=2,max=25"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Email   string `json:"email"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=2,max=25"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	if detail, ok := h.checkRequest(req); !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	user, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.enqueueMail(r, jobs.SendEmailPayload{
		To:      user.Email,
		Subject: "Welcome",
		Body:    fmt.Sprintf("Hello %s, your account has been created.", user.FirstName),
	})

	httpx.JSON(w, http.StatusOK, registerResponse{
		Message: "User registered successfully",
		Email:   user.Email,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	if detail, ok := h.checkRequest(req); !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	tokenString, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Message: "Login successfully",
		Token:   tokenString,
		Email:   user.Email,
	})
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	if detail, ok := h.checkRequest(req); !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	confirmation, err := h.service.ResetPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.enqueueMail(r, jobs.SendEmailPayload{
		To:      req.Email,
		Subject: "Password changed",
		Body:    "The password for your account has been reset.",
	})

	httpx.JSON(w, http.StatusOK, messageResponse{Message: confirmation})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	rawToken := BearerToken(r)
	if err := h.service.Logout(r.Context(), rawToken); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "Logout successfully"})
}

// checkRequest runs struct validation and renders a field-level detail string.
func (h *Handler) checkRequest(req any) (string, bool) {
	err := h.validate.Struct(req)
	if err == nil {
		return "", true
	}
	var fieldErrs validator.ValidationErrors
	details := make([]string, 0, 4)
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			details = append(details, fmt.Sprintf("%s is invalid (%s)", fieldErr.Field(), fieldErr.Tag()))
		}
	} else {
		details = append(details, err.Error())
	}
	return strings.Join(details, "; "), false
}

// BearerToken extracts the raw token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func (h *Handler) enqueueMail(r *http.Request, payload jobs.SendEmailPayload) {
	if h.mail == nil {
		return
	}
	if _, err := h.mail.EnqueueSendEmail(r.Context(), payload); err != nil {
		h.logger.Warn("enqueue mail", slog.String("to", payload.To), slog.Any("error", err))
	}
}

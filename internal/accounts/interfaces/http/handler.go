package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	accountsapp "well-analysis/internal/accounts/application"
	accounts "well-analysis/internal/accounts/domain"
	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/audit"
	"well-analysis/internal/auth"
)

// Handler provides account endpoints.
type Handler struct {
	service     *accountsapp.Service
	auditLogger audit.Logger
	logger      logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(service *accountsapp.Service, auditLogger audit.Logger, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("accounts handler: nil service")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{service: service, auditLogger: auditLogger, logger: logger}, nil
}

// Routes returns the router mounted under /api/auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Get("/profile", h.handleProfile)
	r.Put("/profile", h.handleUpdateProfile)
	r.Get("/users", h.handleUsers)
	return r
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in accountsapp.RegisterInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	entry := audit.FromRequest(r, "user.register", "user", user.ID, "", map[string]any{"username": user.Username})
	entry.UserID = user.ID
	entry.Username = user.Username
	entry.Role = string(user.Role)
	h.logAudit(r, entry)
	apihttp.WriteJSON(w, http.StatusCreated, map[string]any{"message": "user created", "user": user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := apihttp.DecodeJSON(r, &req); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in accountsapp.ProfileInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, audit.FromRequest(r, "user.update", "user", user.ID, "", map[string]any{
		"email_changed":    in.Email != nil,
		"password_changed": in.Password != nil,
	}))
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{"message": "profile updated", "user": user})
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	if !auth.RoleFromContext(r.Context()).AtLeast(auth.RoleAdmin) {
		apihttp.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrInvalidCredentials):
		apihttp.WriteError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, accounts.ErrUserNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, accounts.ErrDuplicateUser):
		apihttp.WriteError(w, http.StatusBadRequest, "username or email already taken")
	case errors.Is(err, accounts.ErrInvalidUser), errors.Is(err, auth.ErrWeakPassword):
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.WithError(err).Error("accounts request failed")
		apihttp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) logAudit(r *http.Request, entry audit.Entry) {
	if h.auditLogger == nil {
		return
	}
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.WithError(err).Warn("audit log failed")
	}
}

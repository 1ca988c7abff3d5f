package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/audit"
	"well-analysis/internal/auth"
	wellsapp "well-analysis/internal/wells/application"
	wells "well-analysis/internal/wells/domain"
)

// Handler provides well endpoints.
type Handler struct {
	service     *wellsapp.Service
	checker     auth.WellOwnerChecker
	auditLogger audit.Logger
	logger      logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(service *wellsapp.Service, checker auth.WellOwnerChecker, auditLogger audit.Logger, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("wells handler: nil service")
	}
	if checker == nil {
		return nil, errors.New("wells handler: nil well checker")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{service: service, checker: checker, auditLogger: auditLogger, logger: logger}, nil
}

// Routes returns the router mounted under /api/wells.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Route("/{wellID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
		r.Get("/stats", h.handleStats)
	})
	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := apihttp.IntQuery(r, "page", 1)
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	perPage, err := apihttp.IntQuery(r, "per_page", wellsapp.DefaultPerPage)
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.service.List(r.Context(), wellsapp.ListQuery{
		OwnerID: auth.UserIDFromContext(r.Context()),
		Status:  r.URL.Query().Get("status"),
		Search:  r.URL.Query().Get("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in wellsapp.WellInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	well, err := h.service.Create(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "well.create", well.ID, map[string]any{"name": well.Name})
	apihttp.WriteJSON(w, http.StatusCreated, well)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	well, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, well)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	well, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	var in wellsapp.WellInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := h.service.Update(r.Context(), well.ID, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "well.update", well.ID, nil)
	apihttp.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	well, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), well.ID); err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "well.delete", well.ID, map[string]any{"name": well.Name})
	apihttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "well deleted"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	well, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), well.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) ownedWell(w http.ResponseWriter, r *http.Request) (*wells.Well, bool) {
	well, err := h.checker.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "wellID"))
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	return well, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		apihttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrWellNotFound), errors.Is(err, wells.ErrNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "well not found")
	case errors.Is(err, wells.ErrInvalidWell), errors.Is(err, wells.ErrInvalidStatus):
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.WithError(err).Error("wells request failed")
		apihttp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) logAudit(r *http.Request, action, wellID string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	entry := audit.FromRequest(r, action, "well", wellID, wellID, meta)
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.WithError(err).Warn("audit log failed")
	}
}

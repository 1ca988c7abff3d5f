package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/audit"
	"well-analysis/internal/auth"
	logsapp "well-analysis/internal/logs/application"
	logs "well-analysis/internal/logs/domain"
)

const maxUploadSize = 32 << 20

// Handler provides log HTTP endpoints.
type Handler struct {
	service     *logsapp.Service
	wells       auth.WellOwnerChecker
	auditLogger audit.Logger
	logger      logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(service *logsapp.Service, wells auth.WellOwnerChecker, auditLogger audit.Logger, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("logs handler: nil service")
	}
	if wells == nil {
		return nil, errors.New("logs handler: nil well checker")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{service: service, wells: wells, auditLogger: auditLogger, logger: logger}, nil
}

// Routes returns the router mounted under /api/logs.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/well/{wellID}", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/types", h.handleTypes)
		r.Post("/import", h.handleImport)
		r.Get("/export", h.handleExport)
		r.Get("/plot", h.handlePlot)
	})
	r.Delete("/{sampleID}", h.handleDelete)
	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	filter, err := parseFilter(r, wellID)
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	samples, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{
		"well_id": wellID,
		"count":   len(samples),
		"logs":    samples,
	})
}

func (h *Handler) handleTypes(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	types, err := h.service.CurveTypes(r.Context(), wellID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{"log_types": types})
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			apihttp.WriteError(w, http.StatusBadRequest, "csv file is required")
			return
		}
		defer file.Close()
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
			apihttp.WriteError(w, http.StatusBadRequest, "file must be a .csv")
			return
		}
		body = file
	}

	result, err := h.service.ImportCSV(r.Context(), wellID, body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "logs.import", wellID, wellID, map[string]any{"imported": result.Imported, "rows": result.Rows})
	apihttp.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	curve := logs.CurveType(r.URL.Query().Get("log_type"))
	data, err := h.service.Export(r.Context(), wellID, curve)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{"well_id": wellID, "data": data})
}

func (h *Handler) handlePlot(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	curve, err := logs.ParseCurveType(r.URL.Query().Get("log_type"))
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "log_type must be one of GR, RESIS, DENS, NEUT, SP, CALI")
		return
	}
	from, err := apihttp.FloatQuery(r, "depth_from")
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := apihttp.FloatQuery(r, "depth_to")
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	samples, err := h.service.Extract(r.Context(), wellID, curve, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	info, _ := logs.Info(curve)
	png, err := RenderCurvePNG(info, samples, 4*vg.Inch, 8*vg.Inch)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sampleID := chi.URLParam(r, "sampleID")
	sample, err := h.service.Get(r.Context(), sampleID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if _, err := h.wells.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), sample.WellID); err != nil {
		if errors.Is(err, auth.ErrWellNotFound) {
			apihttp.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		h.respondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), sampleID); err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "logs.delete", sampleID, sample.WellID, nil)
	apihttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "sample deleted"})
}

func (h *Handler) ownedWell(w http.ResponseWriter, r *http.Request) (string, bool) {
	wellID := chi.URLParam(r, "wellID")
	if _, err := h.wells.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), wellID); err != nil {
		h.respondError(w, err)
		return "", false
	}
	return wellID, true
}

func parseFilter(r *http.Request, wellID string) (logs.SampleFilter, error) {
	filter := logs.SampleFilter{WellID: wellID}
	if value := r.URL.Query().Get("log_type"); value != "" {
		curve, err := logs.ParseCurveType(value)
		if err != nil {
			return filter, errors.New("unknown log_type")
		}
		filter.Curve = curve
	}
	var err error
	if filter.DepthFrom, err = apihttp.FloatQuery(r, "depth_from"); err != nil {
		return filter, err
	}
	if filter.DepthTo, err = apihttp.FloatQuery(r, "depth_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		apihttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrWellNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "well not found")
	case errors.Is(err, logs.ErrSampleNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "sample not found")
	case errors.Is(err, errNoSamples):
		apihttp.WriteError(w, http.StatusNotFound, "no samples in range")
	case errors.Is(err, logs.ErrInvalidRange),
		errors.Is(err, logs.ErrUnknownCurve),
		errors.Is(err, logs.ErrInvalidCSV),
		errors.Is(err, logs.ErrNegativeDepth):
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apihttp.WriteError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		h.logger.WithError(err).Error("logs request failed")
		apihttp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) logAudit(r *http.Request, action, resourceID, wellID string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	entry := audit.FromRequest(r, action, "well_log", resourceID, wellID, meta)
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.WithError(err).Warn("audit log failed")
	}
}

package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/audit"
	"well-analysis/internal/auth"
	"well-analysis/internal/observability/metrics"
	reportapp "well-analysis/internal/reporting/application"
	wells "well-analysis/internal/wells/domain"
)

// Report formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var errUnknownFormat = errors.New("reports: unknown format")

// Handler serves well reports.
type Handler struct {
	service     *reportapp.Service
	wells       auth.WellOwnerChecker
	auditLogger audit.Logger
	logger      logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(service *reportapp.Service, wells auth.WellOwnerChecker, auditLogger audit.Logger, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("reports handler: nil service")
	}
	if wells == nil {
		return nil, errors.New("reports handler: nil well checker")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{service: service, wells: wells, auditLogger: auditLogger, logger: logger}, nil
}

// Routes returns the router mounted under /api/reports.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/well/{wellID}", h.handleReport)
	r.Get("/well/{wellID}/summary", h.handleSummary)
	return r
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = FormatJSON
	}
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(format, result, time.Since(start))
	}()

	wellID := chi.URLParam(r, "wellID")
	if _, err := h.wells.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), wellID); err != nil {
		result = metrics.ResultError
		h.respondError(w, err)
		return
	}
	report, err := h.service.BuildReport(r.Context(), wellID)
	if err != nil {
		result = metrics.ResultError
		h.respondError(w, err)
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case FormatJSON:
		h.logAudit(r, wellID, format)
		apihttp.WriteJSON(w, http.StatusOK, report)
		return
	case FormatHTML:
		body, err = BuildReportHTML(report)
		contentType = "text/html; charset=utf-8"
	case FormatPDF:
		body, err = BuildReportPDF(report)
		contentType = "application/pdf"
	case FormatXLSX:
		body, err = BuildReportXLSX(report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		err = errUnknownFormat
	}
	if err != nil {
		if errors.Is(err, errUnknownFormat) {
			result = metrics.ResultInvalid
		} else {
			result = metrics.ResultError
		}
		h.respondError(w, err)
		return
	}

	h.logAudit(r, wellID, format)
	if format != FormatHTML {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(report, format)))
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	wellID := chi.URLParam(r, "wellID")
	if _, err := h.wells.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), wellID); err != nil {
		h.respondError(w, err)
		return
	}
	summary, err := h.service.BuildWellSummary(r.Context(), wellID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, summary)
}

func reportFilename(report *reportapp.Report, format string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, report.Well.Name)
	return fmt.Sprintf("report_%s_%s.%s", name, report.Metadata.GeneratedAt.Format("20060102"), format)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		apihttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrWellNotFound), errors.Is(err, wells.ErrNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "well not found")
	case errors.Is(err, errUnknownFormat):
		apihttp.WriteError(w, http.StatusBadRequest, "format must be json, html, pdf or xlsx")
	default:
		h.logger.WithError(err).Error("report request failed")
		apihttp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) logAudit(r *http.Request, wellID, format string) {
	if h.auditLogger == nil {
		return
	}
	entry := audit.FromRequest(r, "report.export", "report", wellID, wellID, map[string]any{"format": format})
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.WithError(err).Warn("audit log failed")
	}
}

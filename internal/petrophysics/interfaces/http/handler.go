package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/audit"
	"well-analysis/internal/auth"
	petroapp "well-analysis/internal/petrophysics/application"
	petrophysics "well-analysis/internal/petrophysics/domain"
)

const maxBodySize = 1 << 20

// calculateRequest accepts calibration values flat or nested; nested values win.
type calculateRequest struct {
	DepthFrom *float64 `json:"depth_from"`
	DepthTo   *float64 `json:"depth_to"`
	petrophysics.CalibrationOverrides
	Calibration *petrophysics.CalibrationOverrides `json:"calibration"`
}

func (req calculateRequest) toCompute() petroapp.ComputeRequest {
	overrides := req.CalibrationOverrides
	if nested := req.Calibration; nested != nil {
		if nested.GRClean != nil {
			overrides.GRClean = nested.GRClean
		}
		if nested.GRShale != nil {
			overrides.GRShale = nested.GRShale
		}
		if nested.RhoMatrix != nil {
			overrides.RhoMatrix = nested.RhoMatrix
		}
		if nested.RhoFluid != nil {
			overrides.RhoFluid = nested.RhoFluid
		}
	}
	return petroapp.ComputeRequest{
		DepthFrom:   req.DepthFrom,
		DepthTo:     req.DepthTo,
		Calibration: overrides,
	}
}

// Handler provides petrophysical analysis endpoints.
type Handler struct {
	service     *petroapp.Service
	inventory   petroapp.CurveInventory
	wells       auth.WellOwnerChecker
	validator   *RequestValidator
	auditLogger audit.Logger
	logger      logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(service *petroapp.Service, inventory petroapp.CurveInventory, wells auth.WellOwnerChecker, auditLogger audit.Logger, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("analysis handler: nil service")
	}
	if wells == nil {
		return nil, errors.New("analysis handler: nil well checker")
	}
	validator, err := NewCalculateValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		service:     service,
		inventory:   inventory,
		wells:       wells,
		validator:   validator,
		auditLogger: auditLogger,
		logger:      logger,
	}, nil
}

// Routes returns the router mounted under /api/analysis.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/well/{wellID}", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		r.Get("/zones", h.handleListZones)
		r.Post("/zones", h.handleCreateZone)
		r.Get("/suggestions", h.handleSuggestions)
	})
	r.Route("/zones/{zoneID}", func(r chi.Router) {
		r.Get("/", h.handleGetZone)
		r.Put("/", h.handleUpdateZone)
		r.Delete("/", h.handleDeleteZone)
	})
	return r
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validator.Validate(body); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req calculateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.service.ComputeZone(r.Context(), wellID, req.toCompute())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "analysis.calculate", result.Zone.ID, wellID, map[string]any{
		"depth_from": result.Zone.DepthFrom,
		"depth_to":   result.Zone.DepthTo,
		"zone_type":  result.Zone.ZoneType,
	})
	apihttp.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleListZones(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	zones, err := h.service.ListZones(r.Context(), wellID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if zones == nil {
		zones = []petrophysics.Zone{}
	}
	apihttp.WriteJSON(w, http.StatusOK, map[string]any{"well_id": wellID, "zones": zones})
}

func (h *Handler) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	var in petroapp.ZoneInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	zone, err := h.service.CreateZone(r.Context(), wellID, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "analysis.zone.create", zone.ID, wellID, nil)
	apihttp.WriteJSON(w, http.StatusCreated, zone)
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	wellID, ok := h.ownedWell(w, r)
	if !ok {
		return
	}
	if h.inventory == nil {
		apihttp.WriteError(w, http.StatusNotImplemented, "suggestions unavailable")
		return
	}
	out, err := h.service.Suggest(r.Context(), wellID, h.inventory)
	if err != nil {
		h.respondError(w, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetZone(w http.ResponseWriter, r *http.Request) {
	zone, ok := h.ownedZone(w, r)
	if !ok {
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, zone)
}

func (h *Handler) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	zone, ok := h.ownedZone(w, r)
	if !ok {
		return
	}
	var in petroapp.ZoneInput
	if err := apihttp.DecodeJSON(r, &in); err != nil {
		apihttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := h.service.UpdateZone(r.Context(), zone.ID, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "analysis.zone.update", zone.ID, zone.WellID, nil)
	apihttp.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	zone, ok := h.ownedZone(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteZone(r.Context(), zone.ID); err != nil {
		h.respondError(w, err)
		return
	}
	h.logAudit(r, "analysis.zone.delete", zone.ID, zone.WellID, nil)
	apihttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "zone deleted"})
}

func (h *Handler) ownedWell(w http.ResponseWriter, r *http.Request) (string, bool) {
	wellID := chi.URLParam(r, "wellID")
	if _, err := h.wells.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), wellID); err != nil {
		h.respondError(w, err)
		return "", false
	}
	return wellID, true
}

// ownedZone loads the zone and answers 403 when its well belongs to someone else.
func (h *Handler) ownedZone(w http.ResponseWriter, r *http.Request) (*petrophysics.Zone, bool) {
	zone, err := h.service.GetZone(r.Context(), chi.URLParam(r, "zoneID"))
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	if _, err := h.wells.EnsureWellOwner(r.Context(), auth.UserIDFromContext(r.Context()), zone.WellID); err != nil {
		if errors.Is(err, auth.ErrWellNotFound) {
			apihttp.WriteError(w, http.StatusForbidden, "forbidden")
			return nil, false
		}
		h.respondError(w, err)
		return nil, false
	}
	return zone, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		apihttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrWellNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "well not found")
	case errors.Is(err, petrophysics.ErrZoneNotFound):
		apihttp.WriteError(w, http.StatusNotFound, "zone not found")
	case errors.Is(err, petrophysics.ErrInsufficientData):
		apihttp.WriteError(w, http.StatusUnprocessableEntity, "no gamma-ray data in the requested interval")
	case errors.Is(err, petrophysics.ErrInvalidRange),
		errors.Is(err, petrophysics.ErrConfiguration),
		errors.Is(err, petrophysics.ErrInvalidZone):
		apihttp.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.WithError(err).Error("analysis request failed")
		apihttp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) logAudit(r *http.Request, action, resourceID, wellID string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	entry := audit.FromRequest(r, action, "zone", resourceID, wellID, meta)
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.WithError(err).Warn("audit log failed")
	}
}

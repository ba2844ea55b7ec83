// Package geographic implements the HTTP handlers exposing the Kigali
// district/sector/cell hierarchy and the location validation endpoint. The
// hierarchy is compiled in, so every handler answers from memory.
package geographic

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hirwa-dev/subscription-manager/internal/geography"
	"github.com/hirwa-dev/subscription-manager/internal/http/response"
	"github.com/hirwa-dev/subscription-manager/internal/lib/sl"
)

// DummyLocation receives a location triple to validate.
type DummyLocation struct {
	Area     string `json:"area" validate:"required"`
	Location string `json:"location" validate:"required"`
	Cell     string `json:"cell,omitempty"`
}

// Handler serves the geography endpoints.
type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

// New creates a new Handler with the given logger.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validator.New(),
	}
}

// Districts godoc
// @Summary List districts
// @Description Returns the Kigali districts in alphabetical order.
// @Tags Geography
// @Produce json
// @Success 200 {object} response.Response "Districts"
// @Router /geographic/districts [get]
func (h *Handler) Districts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"districts": geography.Districts(),
	}))
}

// Sectors godoc
// @Summary List sectors of a district
// @Description Returns the sectors of one district in alphabetical order.
// @Tags Geography
// @Produce json
// @Param district path string true "District name"
// @Success 200 {object} response.Response "Sectors"
// @Failure 404 {object} response.ErrorResponse "Unknown district"
// @Router /geographic/sectors/{district} [get]
func (h *Handler) Sectors(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.geographic.sectors"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	district := chi.URLParam(r, "district")
	sectors := geography.Sectors(district)
	if len(sectors) == 0 {
		log.Warn("unknown district", slog.String("district", district))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown district "+district))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"district": district,
		"sectors":  sectors,
	}))
}

// Cells godoc
// @Summary List cells of a sector
// @Description Returns the cells of one sector within one district in alphabetical order.
// @Tags Geography
// @Produce json
// @Param district path string true "District name"
// @Param sector path string true "Sector name"
// @Success 200 {object} response.Response "Cells"
// @Failure 404 {object} response.ErrorResponse "Unknown district or sector"
// @Router /geographic/cells/{district}/{sector} [get]
func (h *Handler) Cells(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.geographic.cells"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	district := chi.URLParam(r, "district")
	sector := chi.URLParam(r, "sector")
	cells := geography.Cells(district, sector)
	if len(cells) == 0 {
		log.Warn("unknown location",
			slog.String("district", district),
			slog.String("sector", sector))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown district or sector"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"district": district,
		"sector":   sector,
		"cells":    cells,
	}))
}

// All godoc
// @Summary Get the full hierarchy
// @Description Returns the whole district/sector/cell tree.
// @Tags Geography
// @Produce json
// @Success 200 {object} response.Response "Hierarchy"
// @Router /geographic/all [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(geography.All()))
}

// Validate godoc
// @Summary Validate a location triple
// @Description Checks that the area, location and optional cell form a valid hierarchy. An invalid value is reported with the accepted alternatives.
// @Tags Geography
// @Accept json
// @Produce json
// @Param request body DummyLocation true "Location to check"
// @Success 200 {object} response.Response "Location is valid"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or location"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /geographic/validate [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.geographic.validate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyLocation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := geography.Validate(req.Area, req.Location, req.Cell); err != nil {
		var locErr *geography.LocationError
		if errors.As(err, &locErr) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(locErr.Error()))
			return
		}
		log.Error("failed to validate location", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not validate location"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"valid": true,
	}))
}

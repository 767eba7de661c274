package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate/views"
	"github.com/ibaloyan/ClimateAnalysis/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, &views.IndexData{Routes: indexRoutes}); err != nil {
		writeInternalError(w, r, "index template render failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	series, err := c.repository.GetPrecipitation(r.Context())
	if err != nil {
		writeInternalError(w, r, "precipitation: query failed", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, series)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	names, err := c.repository.GetStationNames(r.Context())
	if err != nil {
		writeInternalError(w, r, "stations: query failed", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, names)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	series, err := c.repository.GetTemperatureObservations(r.Context())
	if err != nil {
		writeInternalError(w, r, "tobs: query failed", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, series)
}

// handleDailyNormals takes start_date as MM-DD. The value is passed to the
// store unvalidated; nonsense simply matches nothing.
func (c *climateControllerImpl) handleDailyNormals(w http.ResponseWriter, r *http.Request) {
	monthDay := chi.URLParam(r, "start_date")
	stats, err := c.repository.GetDailyNormals(r.Context(), monthDay)
	if err != nil {
		writeInternalError(w, r, "daily normals: query failed", err)
		return
	}
	writeStats(w, stats)
}

func (c *climateControllerImpl) handleRangeStats(w http.ResponseWriter, r *http.Request) {
	start := chi.URLParam(r, "start_date")
	end := chi.URLParam(r, "end_date")
	stats, err := c.repository.GetRangeStats(r.Context(), start, end)
	if err != nil {
		writeInternalError(w, r, "range stats: query failed", err)
		return
	}
	writeStats(w, stats)
}

package controller

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate/types"
	"github.com/ibaloyan/ClimateAnalysis/internal/utils"
)

const apiPrefix = "/api/v1.0"

// indexRoutes is what GET / advertises, in Flask-style placeholder notation.
var indexRoutes = []template.HTML{
	apiPrefix + "/precipitation",
	apiPrefix + "/stations",
	apiPrefix + "/tobs",
	apiPrefix + "/start_date/<start_date>",
	apiPrefix + "/start_date/end_date/<start_date>/<end_date>",
}

// writeInternalError logs err and answers with a generic 500 that does not
// leak store details.
func writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// writeStats answers with the one-element array the stats endpoints return.
func writeStats(w http.ResponseWriter, stats types.TemperatureStats) {
	utils.WriteJSON(w, http.StatusOK, []types.TemperatureStats{stats})
}

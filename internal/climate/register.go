package climate

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate/controller"
	"github.com/ibaloyan/ClimateAnalysis/internal/climate/repository"
)

func RegisterFeature(r chi.Router, db *sql.DB) {
	climateRepository := repository.NewRepository(db)
	climateController := controller.NewClimateController(climateRepository)
	climateController.RegisterRoutes(r)
}

package controller

import (
	"github.com/go-chi/chi/v5"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate/repository"
)

type ClimateController interface {
	RegisterRoutes(r chi.Router)
}

type climateControllerImpl struct {
	repository repository.ClimateRepository
}

func NewClimateController(repository repository.ClimateRepository) ClimateController {
	return &climateControllerImpl{repository: repository}
}

func (c *climateControllerImpl) RegisterRoutes(r chi.Router) {
	r.Get("/", c.handleIndex)
	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/precipitation", c.handlePrecipitation)
		r.Get("/stations", c.handleStations)
		r.Get("/tobs", c.handleTobs)
		r.Get("/start_date/{start_date}", c.handleDailyNormals)
		r.Get("/start_date/end_date/{start_date}/{end_date}", c.handleRangeStats)
	})
}

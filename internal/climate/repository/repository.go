package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate/types"
)

//go:embed sql/get-station-names.sql
var getStationNamesSQL string

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-tobs.sql
var getTobsSQL string

//go:embed sql/get-daily-normals.sql
var getDailyNormalsSQL string

//go:embed sql/get-range-stats.sql
var getRangeStatsSQL string

// The last year of the dataset, as exclusive bounds on the YYYY-MM-DD date column.
const (
	LastYearAfter  = "2016-08-23"
	LastYearBefore = "2017-08-24"
)

type ClimateRepository interface {
	// GetStationNames returns every station name in the store's row order.
	GetStationNames(ctx context.Context) ([]string, error)
	// GetPrecipitation returns one (date, prcp) per date of the last year, newest first.
	GetPrecipitation(ctx context.Context) ([]types.DateValue, error)
	// GetTemperatureObservations returns one (date, tobs) per date of the last year, newest first.
	GetTemperatureObservations(ctx context.Context) ([]types.DateValue, error)
	// GetDailyNormals aggregates tobs over all rows whose MM-DD is lexically >= monthDay.
	GetDailyNormals(ctx context.Context, monthDay string) (types.TemperatureStats, error)
	// GetRangeStats aggregates tobs over rows with start <= date <= end.
	GetRangeStats(ctx context.Context, start, end string) (types.TemperatureStats, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStationNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, getStationNamesSQL)
	if err != nil {
		return nil, fmt.Errorf("query station names: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close station rows", "error", err)
		}
	}()
	out := []string{}
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan station name: %w", err)
		}
		out = append(out, name.String)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context) ([]types.DateValue, error) {
	return r.lastYearSeries(ctx, "precipitation", getPrecipitationSQL)
}

func (r *repositoryImpl) GetTemperatureObservations(ctx context.Context) ([]types.DateValue, error) {
	return r.lastYearSeries(ctx, "tobs", getTobsSQL)
}

func (r *repositoryImpl) lastYearSeries(ctx context.Context, what, query string) ([]types.DateValue, error) {
	rows, err := r.db.QueryContext(ctx, query, LastYearAfter, LastYearBefore)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close series rows", "series", what, "error", err)
		}
	}()
	out := []types.DateValue{}
	for rows.Next() {
		var date string
		var v sql.NullFloat64
		if err := rows.Scan(&date, &v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, types.DateValue{Date: date, Value: nullableFloat(v)})
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetDailyNormals(ctx context.Context, monthDay string) (types.TemperatureStats, error) {
	stats, err := r.tobsStats(ctx, getDailyNormalsSQL, monthDay)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("query daily normals from %q: %w", monthDay, err)
	}
	return stats, nil
}

func (r *repositoryImpl) GetRangeStats(ctx context.Context, start, end string) (types.TemperatureStats, error) {
	stats, err := r.tobsStats(ctx, getRangeStatsSQL, start, end)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("query tobs stats %q..%q: %w", start, end, err)
	}
	return stats, nil
}

// tobsStats scans a single MIN, AVG, MAX row. Aggregates over zero rows are NULL.
func (r *repositoryImpl) tobsStats(ctx context.Context, query string, args ...any) (types.TemperatureStats, error) {
	var minV, avgV, maxV sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&minV, &avgV, &maxV); err != nil {
		return types.TemperatureStats{}, err
	}
	return types.TemperatureStats{
		Avg: nullableFloat(avgV),
		Max: nullableFloat(maxV),
		Min: nullableFloat(minV),
	}, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

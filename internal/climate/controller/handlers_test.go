package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibaloyan/ClimateAnalysis/internal/climate/types"
	"github.com/ibaloyan/ClimateAnalysis/internal/climate/views"
)

type mockRepo struct {
	stations    []string
	stationsErr error
	prcp        []types.DateValue
	prcpErr     error
	tobs        []types.DateValue
	tobsErr     error
	normals     types.TemperatureStats
	normalsErr  error
	rangeStats  types.TemperatureStats
	rangeErr    error

	gotMonthDay   string
	gotRangeStart string
	gotRangeEnd   string
}

func (m *mockRepo) GetStationNames(ctx context.Context) ([]string, error) {
	return m.stations, m.stationsErr
}

func (m *mockRepo) GetPrecipitation(ctx context.Context) ([]types.DateValue, error) {
	return m.prcp, m.prcpErr
}

func (m *mockRepo) GetTemperatureObservations(ctx context.Context) ([]types.DateValue, error) {
	return m.tobs, m.tobsErr
}

func (m *mockRepo) GetDailyNormals(ctx context.Context, monthDay string) (types.TemperatureStats, error) {
	m.gotMonthDay = monthDay
	return m.normals, m.normalsErr
}

func (m *mockRepo) GetRangeStats(ctx context.Context, start, end string) (types.TemperatureStats, error) {
	m.gotRangeStart, m.gotRangeEnd = start, end
	return m.rangeStats, m.rangeErr
}

func ptr(v float64) *float64 { return &v }

func serve(t *testing.T, repo *mockRepo, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewClimateController(repo).RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func assertJSON(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, want, rec.Body.String())
}

func assertGenericError(t *testing.T, rec *httptest.ResponseRecorder, leaked string) {
	t.Helper()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "internal server error")
	assert.NotContains(t, body, leaked, "store error text must not reach the client")
}

func Test_handleIndex(t *testing.T) {
	t.Run("lists the api routes as html", func(t *testing.T) {
		require.NoError(t, views.LoadTemplates())
		rec := serve(t, &mockRepo{}, "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t,
			"Available Routes:<br/>"+
				"/api/v1.0/precipitation<br/>"+
				"/api/v1.0/stations<br/>"+
				"/api/v1.0/tobs<br/>"+
				"/api/v1.0/start_date/<start_date><br/>"+
				"/api/v1.0/start_date/end_date/<start_date>/<end_date>",
			rec.Body.String())
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		rec := serve(t, &mockRepo{}, "/api/v1.0/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_handlePrecipitation(t *testing.T) {
	t.Run("list of single-key objects in repository order", func(t *testing.T) {
		repo := &mockRepo{prcp: []types.DateValue{
			{Date: "2017-08-23", Value: ptr(0)},
			{Date: "2017-02-10"},
			{Date: "2016-08-24", Value: ptr(0.01)},
		}}
		rec := serve(t, repo, "/api/v1.0/precipitation")
		assertJSON(t, rec, `[{"2017-08-23":0},{"2017-02-10":null},{"2016-08-24":0.01}]`)

		var elems []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &elems))
		for _, e := range elems {
			assert.Len(t, e, 1)
		}
	})

	t.Run("empty series is an empty array", func(t *testing.T) {
		rec := serve(t, &mockRepo{prcp: []types.DateValue{}}, "/api/v1.0/precipitation")
		assertJSON(t, rec, `[]`)
	})

	t.Run("repository failure is a generic 500", func(t *testing.T) {
		rec := serve(t, &mockRepo{prcpErr: errors.New("no such table: measurement")}, "/api/v1.0/precipitation")
		assertGenericError(t, rec, "no such table")
	})
}

func Test_handleStations(t *testing.T) {
	t.Run("flat array of names", func(t *testing.T) {
		repo := &mockRepo{stations: []string{"WAIKIKI 717.2, HI US", "KANEOHE 838.1, HI US"}}
		rec := serve(t, repo, "/api/v1.0/stations")
		assertJSON(t, rec, `["WAIKIKI 717.2, HI US","KANEOHE 838.1, HI US"]`)
	})

	t.Run("repository failure is a generic 500", func(t *testing.T) {
		rec := serve(t, &mockRepo{stationsErr: errors.New("db error")}, "/api/v1.0/stations")
		assertGenericError(t, rec, "db error")
	})
}

func Test_handleTobs(t *testing.T) {
	t.Run("list of single-key objects", func(t *testing.T) {
		repo := &mockRepo{tobs: []types.DateValue{
			{Date: "2017-08-23", Value: ptr(75)},
			{Date: "2016-08-24", Value: ptr(70)},
		}}
		rec := serve(t, repo, "/api/v1.0/tobs")
		assertJSON(t, rec, `[{"2017-08-23":75},{"2016-08-24":70}]`)
	})

	t.Run("repository failure is a generic 500", func(t *testing.T) {
		rec := serve(t, &mockRepo{tobsErr: errors.New("disk I/O error")}, "/api/v1.0/tobs")
		assertGenericError(t, rec, "disk I/O error")
	})
}

func Test_handleDailyNormals(t *testing.T) {
	t.Run("passes month-day through and wraps stats in an array", func(t *testing.T) {
		repo := &mockRepo{normals: types.TemperatureStats{Avg: ptr(73.5), Max: ptr(78), Min: ptr(70)}}
		rec := serve(t, repo, "/api/v1.0/start_date/07-15")

		assertJSON(t, rec, `[{"avg":73.5,"max":78,"min":70}]`)
		assert.Equal(t, "07-15", repo.gotMonthDay)
	})

	t.Run("no matching rows serialize as null", func(t *testing.T) {
		repo := &mockRepo{}
		rec := serve(t, repo, "/api/v1.0/start_date/garbage")

		assertJSON(t, rec, `[{"avg":null,"max":null,"min":null}]`)
		assert.Equal(t, "garbage", repo.gotMonthDay, "start_date is not validated")
	})

	t.Run("repository failure is a generic 500", func(t *testing.T) {
		rec := serve(t, &mockRepo{normalsErr: errors.New("boom")}, "/api/v1.0/start_date/01-01")
		assertGenericError(t, rec, "boom")
	})
}

func Test_handleRangeStats(t *testing.T) {
	t.Run("passes both dates through", func(t *testing.T) {
		repo := &mockRepo{rangeStats: types.TemperatureStats{Avg: ptr(75), Max: ptr(75), Min: ptr(75)}}
		rec := serve(t, repo, "/api/v1.0/start_date/end_date/2017-08-01/2017-08-23")

		assertJSON(t, rec, `[{"avg":75,"max":75,"min":75}]`)
		assert.Equal(t, "2017-08-01", repo.gotRangeStart)
		assert.Equal(t, "2017-08-23", repo.gotRangeEnd)
	})

	t.Run("key order is avg, max, min", func(t *testing.T) {
		repo := &mockRepo{rangeStats: types.TemperatureStats{Avg: ptr(1), Max: ptr(2), Min: ptr(0)}}
		rec := serve(t, repo, "/api/v1.0/start_date/end_date/2017-01-01/2017-01-02")

		assert.Equal(t, `[{"avg":1,"max":2,"min":0}]`, strings.TrimSpace(rec.Body.String()))
	})

	t.Run("empty range serializes as null", func(t *testing.T) {
		repo := &mockRepo{}
		rec := serve(t, repo, "/api/v1.0/start_date/end_date/2017-08-23/2016-08-24")
		assertJSON(t, rec, `[{"avg":null,"max":null,"min":null}]`)
	})

	t.Run("repository failure is a generic 500", func(t *testing.T) {
		rec := serve(t, &mockRepo{rangeErr: errors.New("locked")}, "/api/v1.0/start_date/end_date/a/b")
		assertGenericError(t, rec, "locked")
	})
}

package types

import (
	"encoding/json"
)

type Station struct {
	ID        int64    `json:"id"`
	Station   string   `json:"station"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

type Measurement struct {
	ID      int64    `json:"id"`
	Station string   `json:"station"`
	Date    string   `json:"date"`
	Prcp    *float64 `json:"prcp"`
	Tobs    float64  `json:"tobs"`
}

// DateValue is one row of a per-date series. It marshals as a single-key
// object {"<date>": value}; a nil Value encodes as null.
type DateValue struct {
	Date  string
	Value *float64
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*float64{d.Date: d.Value})
}

// TemperatureStats holds min/avg/max tobs over a set of rows. Fields are nil
// when no row matched.
type TemperatureStats struct {
	Avg *float64 `json:"avg"`
	Max *float64 `json:"max"`
	Min *float64 `json:"min"`
}

// Package dashboard builds the view model of the patient dashboard: the summary
// list, the detail panel, vitals with trend indicators and the blood pressure chart.
// Everything here is pure; rendering lives in the http adapters.
package dashboard

import (
	"strconv"

	"github.com/okian/pulse/internal/domain/patient"
)

// Trend is the directional indicator derived from a qualitative level.
type Trend string

// Trend values.
const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendNone Trend = "none"
)

// TrendFor maps a qualitative level to its indicator. Only the two exact API
// strings produce an arrow; anything else is shown as plain text.
func TrendFor(level string) Trend {
	switch level {
	case patient.LevelHigherThanAverage:
		return TrendUp
	case patient.LevelLowerThanAverage:
		return TrendDown
	default:
		return TrendNone
	}
}

// Reading is one displayed vitals value.
type Reading struct {
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
	Level string  `json:"level"`
	Trend Trend   `json:"trend"`
}

// Vitals is the scalar vitals display of the detail panel.
type Vitals struct {
	// Period names the snapshot the readings come from, e.g. "March 2024".
	Period          string  `json:"period,omitempty"`
	Systolic        Reading `json:"systolic"`
	Diastolic       Reading `json:"diastolic"`
	RespiratoryRate Reading `json:"respiratory_rate"`
	Temperature     Reading `json:"temperature"`
	HeartRate       Reading `json:"heart_rate"`
}

// Display suffixes.
const (
	unitBPM        = " bpm"
	unitFahrenheit = "°F"
)

// CurrentVitals returns the readings of the final snapshot in history, in the order
// the API delivered it. Earlier snapshots only feed the chart. An empty history
// yields zero readings with TrendNone.
//
// NOTE: the API currently lists history newest first, so the final snapshot is the
// oldest one. This matches the dashboard's long-standing behaviour and is kept until
// product confirms which snapshot the scalar panel should show.
func CurrentVitals(history []patient.DiagnosisHistory) Vitals {
	if len(history) == 0 {
		none := Reading{Trend: TrendNone}
		return Vitals{Systolic: none, Diastolic: none, RespiratoryRate: none, Temperature: none, HeartRate: none}
	}
	h := history[len(history)-1]
	v := Vitals{
		Systolic:        reading(h.BloodPressure.Systolic, ""),
		Diastolic:       reading(h.BloodPressure.Diastolic, ""),
		RespiratoryRate: reading(h.RespiratoryRate, unitBPM),
		Temperature:     reading(h.Temperature, unitFahrenheit),
		HeartRate:       reading(h.HeartRate, unitBPM),
	}
	if h.Month != "" && h.Year != 0 {
		v.Period = h.Month + " " + strconv.Itoa(h.Year)
	}
	return v
}

func reading(m patient.Measurement, unit string) Reading {
	return Reading{
		Value: formatValue(m.Value) + unit,
		Raw:   m.Value,
		Level: m.Levels,
		Trend: TrendFor(m.Levels),
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

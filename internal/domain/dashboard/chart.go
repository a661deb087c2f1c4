package dashboard

import "github.com/okian/pulse/internal/domain/patient"

// Chart defaults.
const (
	DefaultYMin = 60
	DefaultYMax = 180
)

// ChartConfig holds the fixed parts of the blood pressure chart.
type ChartConfig struct {
	Labels []string
	YMin   float64
	YMax   float64
}

// DefaultChartConfig returns the six fixed month labels and the [60, 180] axis.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Labels: []string{"Oct,2023", "Nov,2023", "Dec,2023", "Jan,2024", "Feb,2024", "Mar,2024"},
		YMin:   DefaultYMin,
		YMax:   DefaultYMax,
	}
}

// BloodPressureChart is the input of the charting collaborator: two parallel series
// plotted against fixed labels on a clamped vertical axis.
type BloodPressureChart struct {
	Labels    []string  `json:"labels"`
	Systolic  []float64 `json:"systolic"`
	Diastolic []float64 `json:"diastolic"`
	YMin      float64   `json:"y_min"`
	YMax      float64   `json:"y_max"`
}

// BuildChart collects the systolic and diastolic values of every snapshot, in order.
// Both series always have len(history) points regardless of the label count.
func BuildChart(history []patient.DiagnosisHistory, cfg ChartConfig) BloodPressureChart {
	c := BloodPressureChart{
		Labels:    append([]string(nil), cfg.Labels...),
		Systolic:  make([]float64, 0, len(history)),
		Diastolic: make([]float64, 0, len(history)),
		YMin:      cfg.YMin,
		YMax:      cfg.YMax,
	}
	for _, h := range history {
		c.Systolic = append(c.Systolic, h.BloodPressure.Systolic.Value)
		c.Diastolic = append(c.Diastolic, h.BloodPressure.Diastolic.Value)
	}
	return c
}

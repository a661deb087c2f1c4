// Package patient contains the patient records delivered by the upstream API.
// Field names mirror the API's JSON payload.
package patient

// Qualitative levels attached to a vitals value by the API.
const (
	LevelHigherThanAverage = "Higher than Average"
	LevelLowerThanAverage  = "Lower than Average"
)

// Patient is one record of the patient collection.
type Patient struct {
	Name             string             `json:"name"`
	Gender           string             `json:"gender"`
	Age              int                `json:"age"`
	ProfilePicture   string             `json:"profile_picture"`
	DateOfBirth      string             `json:"date_of_birth"`
	PhoneNumber      string             `json:"phone_number"`
	EmergencyContact string             `json:"emergency_contact"`
	InsuranceType    string             `json:"insurance_type"`
	DiagnosisHistory []DiagnosisHistory `json:"diagnosis_history"`
	DiagnosticList   []Diagnostic       `json:"diagnostic_list"`
	LabResults       []string           `json:"lab_results"`
}

// Diagnostic is a display-only row of the diagnostic list; identity is its position.
type Diagnostic struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// DiagnosisHistory is one periodic vitals snapshot.
type DiagnosisHistory struct {
	Month           string        `json:"month"`
	Year            int           `json:"year"`
	BloodPressure   BloodPressure `json:"blood_pressure"`
	HeartRate       Measurement   `json:"heart_rate"`
	RespiratoryRate Measurement   `json:"respiratory_rate"`
	Temperature     Measurement   `json:"temperature"`
}

// BloodPressure pairs the systolic and diastolic readings of a snapshot.
type BloodPressure struct {
	Systolic  Measurement `json:"systolic"`
	Diastolic Measurement `json:"diastolic"`
}

// Measurement is a vitals value with its qualitative level.
type Measurement struct {
	Value  float64 `json:"value"`
	Levels string  `json:"levels"`
}

package dashboard

import "github.com/okian/pulse/internal/domain/patient"

// LoadErrorMessage is shown when the patient collection could not be loaded.
const LoadErrorMessage = "API error! Unable to load patient data."

// ListEntry is one row of the patient list.
type ListEntry struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	Picture  string `json:"profile_picture"`
	Selected bool   `json:"selected"`
}

// Profile holds the scalar detail-panel slots.
type Profile struct {
	Picture          string `json:"profile_picture"`
	Name             string `json:"name"`
	DateOfBirth      string `json:"date_of_birth"`
	Gender           string `json:"gender"`
	PhoneNumber      string `json:"phone_number"`
	EmergencyContact string `json:"emergency_contact"`
	InsuranceType    string `json:"insurance_type"`
}

// Detail is everything the detail renderer shows for one patient.
type Detail struct {
	Index       int                  `json:"index"`
	Profile     Profile              `json:"profile"`
	Diagnostics []patient.Diagnostic `json:"diagnostics"`
	Vitals      Vitals               `json:"vitals"`
	Chart       BloodPressureChart   `json:"chart"`
	LabResults  []string             `json:"lab_results"`
}

// LoadError describes a failed bootstrap. StatusCode is 0 when no response arrived.
type LoadError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// Page is the whole dashboard: either the list plus the selected detail, or a load error.
type Page struct {
	Entries   []ListEntry `json:"entries"`
	Detail    *Detail     `json:"detail,omitempty"`
	LoadError *LoadError  `json:"load_error,omitempty"`
}

// BuildList returns one entry per patient in collection order. Exactly the entry at
// selected is marked; a selected index outside the collection marks none.
func BuildList(patients []patient.Patient, selected int) []ListEntry {
	entries := make([]ListEntry, len(patients))
	for i, p := range patients {
		entries[i] = ListEntry{
			Index:    i,
			Name:     p.Name,
			Gender:   p.Gender,
			Age:      p.Age,
			Picture:  p.ProfilePicture,
			Selected: i == selected,
		}
	}
	return entries
}

// BuildDetail assembles the detail view of the patient at index. Diagnostics and lab
// results keep their order; nothing is sorted or filtered.
func BuildDetail(index int, p patient.Patient, cfg ChartConfig) Detail {
	return Detail{
		Index: index,
		Profile: Profile{
			Picture:          p.ProfilePicture,
			Name:             p.Name,
			DateOfBirth:      p.DateOfBirth,
			Gender:           p.Gender,
			PhoneNumber:      p.PhoneNumber,
			EmergencyContact: p.EmergencyContact,
			InsuranceType:    p.InsuranceType,
		},
		Diagnostics: append([]patient.Diagnostic{}, p.DiagnosticList...),
		Vitals:      CurrentVitals(p.DiagnosisHistory),
		Chart:       BuildChart(p.DiagnosisHistory, cfg),
		LabResults:  append([]string{}, p.LabResults...),
	}
}

// BuildPage renders the list with the selection marker and the selected detail.
// An empty collection yields an empty list and no detail.
func BuildPage(patients []patient.Patient, selected int, cfg ChartConfig) Page {
	page := Page{Entries: BuildList(patients, selected)}
	if selected >= 0 && selected < len(patients) {
		d := BuildDetail(selected, patients[selected], cfg)
		page.Detail = &d
	}
	return page
}

// FailedPage is the page shown after a failed load: the alert and no list entries.
func FailedPage(statusCode int) Page {
	return Page{
		Entries:   []ListEntry{},
		LoadError: &LoadError{StatusCode: statusCode, Message: LoadErrorMessage},
	}
}
